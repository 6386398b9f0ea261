package odsapi

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
	"github.com/metaed-lang/metaed/internal/plugin/unified"
	mt "github.com/metaed-lang/metaed/internal/testing/modeltest"
)

func enhance(t *testing.T, metaEd *model.MetaEdEnvironment, technologyVersion string) {
	t.Helper()
	runner := enhancer.NewRunner(nil)
	for _, plugin := range []enhancer.Plugin{unified.Plugin(), relational.Plugin(), Plugin()} {
		metaEd.AddPlugin(plugin.Name, technologyVersion)
		_, failure, err := runner.RunEnhancers(metaEd, plugin.Name, plugin.Enhancers)
		require.NoError(t, err)
		require.Nil(t, failure)
	}
}

func association(t *testing.T, metaEd *model.MetaEdEnvironment, namespace, fkName string) *AssociationDefinition {
	t.Helper()
	for _, definition := range DataFor(metaEd.Namespace[namespace]).AssociationDefinitions {
		if definition.FullName.Name == fkName {
			return definition
		}
	}
	require.Failf(t, "association not found", "%s in %s", fkName, namespace)
	return nil
}

func studentModel(birthData mt.PropertyOption, addresses mt.PropertyOption) *model.MetaEdEnvironment {
	metaEd := mt.Environment("3.3.0")
	mt.New(metaEd).Namespace("EdFi").
		Descriptor("Sex").
		DomainEntity("Student").
		Property(model.PropertyTypeString, "StudentUniqueId", mt.Identity(), mt.MaxLength("32")).
		Property(model.PropertyTypeDescriptor, "Sex", mt.Optional()).
		Property(model.PropertyTypeCommon, "BirthData", birthData).
		Property(model.PropertyTypeCommon, "Address", addresses).
		Common("BirthData").
		Property(model.PropertyTypeDate, "BirthDate").
		Common("Address").
		Property(model.PropertyTypeString, "City", mt.Identity(), mt.MaxLength("30"))
	return metaEd
}

func TestAggregates(t *testing.T) {
	metaEd := studentModel(mt.Required(), mt.RequiredCollection())
	enhance(t, metaEd, "7.1.0")

	aggregates := DataFor(metaEd.Namespace["EdFi"]).Aggregates
	require.Len(t, aggregates, 2)

	student := aggregates[0]
	assert.Equal(t, "Student", student.AggregateName)
	assert.Equal(t, []EntityTable{
		{Schema: "edfi", Table: "Student"},
		{Schema: "edfi", Table: "StudentBirthData"},
		{Schema: "edfi", Table: "StudentAddress", IsRequiredCollection: true},
	}, student.EntityTables)
	assert.Equal(t, "SexDescriptor", aggregates[1].AggregateName)
}

func TestEntityDefinitions(t *testing.T) {
	metaEd := studentModel(mt.Required(), mt.RequiredCollection())
	enhance(t, metaEd, "7.1.0")

	var student *EntityDefinition
	for _, definition := range DataFor(metaEd.Namespace["EdFi"]).EntityDefinitions {
		if definition.FullName.Name == "Student" {
			student = definition
		}
	}
	require.NotNil(t, student)
	require.Len(t, student.Identifiers, 1)
	assert.Equal(t, "PK_Student", student.Identifiers[0].IdentifierName)
	assert.Equal(t, []string{"StudentUniqueId"}, student.Identifiers[0].IdentifyingPropertyNames)

	require.Len(t, student.LocallyDefinedProperties, 2)
	id := student.LocallyDefinedProperties[0]
	assert.Equal(t, "String", id.PropertyType.DbType)
	assert.Equal(t, "32", id.PropertyType.MaxLength)
	assert.True(t, id.IsIdentifying)
	assert.True(t, student.LocallyDefinedProperties[1].PropertyType.IsNullable)
}

func TestAssociationDefinitions(t *testing.T) {
	metaEd := studentModel(mt.Required(), mt.RequiredCollection())
	enhance(t, metaEd, "7.1.0")

	sex := association(t, metaEd, "EdFi", "FK_Student_SexDescriptor")
	assert.Equal(t, FullName{Schema: "edfi", Name: "SexDescriptor"}, sex.PrimaryEntityFullName)
	assert.Equal(t, FullName{Schema: "edfi", Name: "Student"}, sex.SecondaryEntityFullName)
	assert.False(t, sex.IsIdentifying)
	assert.False(t, sex.IsRequired)
	assert.Equal(t, CardinalityOneToZeroOrMore, sex.Cardinality)

	addresses := association(t, metaEd, "EdFi", "FK_StudentAddress_Student")
	assert.True(t, addresses.IsIdentifying)
	assert.True(t, addresses.IsRequired)
	assert.Equal(t, CardinalityOneToOneOrMore, addresses.Cardinality)

	descriptor := association(t, metaEd, "EdFi", "FK_SexDescriptor_Descriptor")
	assert.Equal(t, CardinalityOneToOneInheritance, descriptor.Cardinality)
}

func TestOptionalCollectionCardinality(t *testing.T) {
	metaEd := studentModel(mt.Required(), mt.OptionalCollection())
	enhance(t, metaEd, "7.1.0")

	assert.Equal(t, CardinalityOneToZeroOrMore, association(t, metaEd, "EdFi", "FK_StudentAddress_Student").Cardinality)
}

func TestCommonSourcedOneToOneByVersion(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		birthData mt.PropertyOption
		want      Cardinality
	}{
		{"required from 6.1", "7.1.0", mt.Required(), CardinalityOneToOne},
		{"optional from 6.1", "7.1.0", mt.Optional(), CardinalityOneToZeroOrOne},
		{"optional before 6.1", "5.3.0", mt.Optional(), CardinalityOneToOne},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metaEd := studentModel(tt.birthData, mt.RequiredCollection())
			enhance(t, metaEd, tt.version)

			assert.Equal(t, tt.want, association(t, metaEd, "EdFi", "FK_StudentBirthData_Student").Cardinality)
		})
	}
}

func TestSubclassCardinalityIgnoresKeyShape(t *testing.T) {
	parent := relational.NewTable("edfi", "School")
	parent.AddColumn(&relational.Column{Name: "SchoolId", IsPartOfPrimaryKey: true})
	parent.AddColumn(&relational.Column{Name: "LocalEducationAgencyId", IsPartOfPrimaryKey: true})
	foreign := relational.NewTable("edfi", "EducationOrganization")
	foreign.AddColumn(&relational.Column{Name: "EducationOrganizationId", IsPartOfPrimaryKey: true})

	definition := &AssociationDefinition{
		ForeignKey: &relational.ForeignKey{
			SourceReference: relational.SourceReference{IsSubclassRelationship: true},
		},
		PrimaryTable:   foreign,
		SecondaryTable: parent,
	}
	metaEd := mt.Environment("3.3.0")
	assert.Equal(t, CardinalityOneToOneInheritance, cardinalityOf(metaEd, definition, false))
	assert.Equal(t, CardinalityOneToOneInheritance, cardinalityOf(metaEd, definition, true))
}

func TestCardinalityFallsBackWithoutAggregate(t *testing.T) {
	parent := relational.NewTable("edfi", "Parent")
	parent.AddColumn(&relational.Column{Name: "A", IsPartOfPrimaryKey: true})
	parent.AddColumn(&relational.Column{Name: "B", IsPartOfPrimaryKey: true})
	foreign := relational.NewTable("edfi", "Foreign")
	foreign.AddColumn(&relational.Column{Name: "A", IsPartOfPrimaryKey: true})

	definition := &AssociationDefinition{
		ForeignKey: &relational.ForeignKey{
			SourceReference: relational.SourceReference{IsRequiredCollection: true},
		},
		IsIdentifying:  true,
		PrimaryTable:   foreign,
		SecondaryTable: parent,
	}
	assert.Equal(t, CardinalityOneToOneOrMore, cardinalityOf(mt.Environment("3.3.0"), definition, true))
}

func TestExtensionAggregateAndCardinality(t *testing.T) {
	metaEd := mt.Environment("3.3.0")
	b := mt.New(metaEd)
	b.Namespace("EdFi").
		DomainEntity("School").
		Property(model.PropertyTypeInteger, "SchoolId", mt.Identity())
	b.Namespace("Sample", "EdFi").
		DomainEntityExtension("EdFi.School").
		Property(model.PropertyTypeString, "MascotName", mt.MaxLength("50"))
	enhance(t, metaEd, "7.1.0")

	extensions := DataFor(metaEd.Namespace["Sample"]).AggregateExtensions
	require.Len(t, extensions, 1)
	assert.Equal(t, FullName{Schema: "edfi", Name: "School"}, extensions[0].FullName)
	assert.Equal(t, []EntityTable{{Schema: "sample", Table: "SchoolExtension"}}, extensions[0].EntityTables)

	assert.Equal(t, CardinalityOneToOneExtension, association(t, metaEd, "Sample", "FK_SchoolExtension_School").Cardinality)
}

func TestMissingForeignTableIsFatal(t *testing.T) {
	metaEd := mt.Environment("3.3.0")
	metaEd.AddPlugin(PluginName, "7.1.0")
	mt.New(metaEd).Namespace("EdFi")
	orphan := relational.NewTable("edfi", "Orphan")
	orphan.AddForeignKey(&relational.ForeignKey{ForeignTableSchema: "edfi", ForeignTableName: "Nowhere"})
	require.NoError(t, relational.TablesFor(metaEd.Namespace["EdFi"]).Register(orphan))

	_, err := AssociationDefinitionEnhancer(metaEd)
	require.Error(t, err)
	assert.Equal(t, "BuildAssociationDefinitions: could not find table 'edfi.Nowhere'", err.Error())
}

func TestDomainModelDefinition(t *testing.T) {
	metaEd := studentModel(mt.Required(), mt.RequiredCollection())
	enhance(t, metaEd, "7.1.0")

	definition := DataFor(metaEd.Namespace["EdFi"]).DomainModelDefinition
	require.NotNil(t, definition)
	assert.Equal(t, "7.1.0", definition.OdsAPIVersion)
	assert.Equal(t, SchemaDefinition{LogicalName: "EdFi", PhysicalName: "edfi"}, definition.SchemaDefinition)
	assert.Len(t, definition.Aggregates, 2)
	assert.Empty(t, definition.AggregateExtensions)

	data, err := json.Marshal(definition)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"aggregateExtensionDefinitions":[]`)
	assert.Contains(t, string(data), `"cardinality":"OneToOneOrMore"`)
}

func TestEnhancersAreIdempotent(t *testing.T) {
	metaEd := studentModel(mt.Required(), mt.RequiredCollection())
	enhance(t, metaEd, "7.1.0")
	data := DataFor(metaEd.Namespace["EdFi"])
	aggregates, associations := len(data.Aggregates), len(data.AssociationDefinitions)

	_, failure, err := enhancer.NewRunner(nil).RunEnhancers(metaEd, PluginName, Plugin().Enhancers)
	require.NoError(t, err)
	require.Nil(t, failure)
	assert.Len(t, data.Aggregates, aggregates)
	assert.Len(t, data.AssociationDefinitions, associations)
}

func TestEnhancersLeaveModelUntouchedOutsideTargetVersions(t *testing.T) {
	metaEd := studentModel(mt.Required(), mt.RequiredCollection())
	runner := enhancer.NewRunner(nil)
	for _, plugin := range []enhancer.Plugin{unified.Plugin(), relational.Plugin()} {
		metaEd.AddPlugin(plugin.Name, "7.1.0")
		_, failure, err := runner.RunEnhancers(metaEd, plugin.Name, plugin.Enhancers)
		require.NoError(t, err)
		require.Nil(t, failure)
	}
	metaEd.AddPlugin(PluginName, "2.5.0")

	tables := func() string {
		data, err := json.Marshal(relational.AllTables(metaEd))
		require.NoError(t, err)
		return string(data)
	}
	beforeKeys, beforeTables := mt.DataKeys(metaEd), tables()

	results, failure, err := runner.RunEnhancers(metaEd, PluginName, Plugin().Enhancers)
	require.NoError(t, err)
	require.Nil(t, failure)
	assert.Len(t, results, len(Plugin().Enhancers))

	if diff := cmp.Diff(beforeKeys, mt.DataKeys(metaEd)); diff != "" {
		t.Errorf("plugin data changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(beforeTables, tables()); diff != "" {
		t.Errorf("tables changed (-before +after):\n%s", diff)
	}
	_, found := LookupData(metaEd.Namespace["EdFi"])
	assert.False(t, found)
}
