package relational

import (
	"fmt"

	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

// mainTableTypes are the entity kinds that own a main table.
var mainTableTypes = []model.ModelType{
	model.ModelTypeDomainEntity,
	model.ModelTypeDomainEntitySubclass,
	model.ModelTypeAssociation,
	model.ModelTypeAssociationSubclass,
	model.ModelTypeDescriptor,
	model.ModelTypeEnumeration,
	model.ModelTypeMapTypeEnumeration,
	model.ModelTypeSchoolYearEnumeration,
	model.ModelTypeDomainEntityExtension,
	model.ModelTypeAssociationExtension,
}

// DescriptorBaseTableEnhancer creates the abstract Descriptor table in the core
// namespace of every namespace declaring descriptors. Every descriptor table
// extends it.
func DescriptorBaseTableEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "DescriptorBaseTableEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	for _, ns := range metaEd.Namespaces() {
		if ns.Entity.Count(model.ModelTypeDescriptor) == 0 {
			continue
		}
		core, ok := ns.CoreNamespace()
		if !ok {
			return enhancer.Fail(name, fmt.Sprintf("core namespace not found for %s", ns.NamespaceName))
		}
		tables := TablesFor(core)
		if _, exists := tables.Get(DescriptorTableName); exists {
			continue
		}
		if err := tables.Register(descriptorBaseTable(SchemaName(core))); err != nil {
			return enhancer.Result{EnhancerName: name}, err
		}
	}
	return enhancer.Ok(name)
}

func descriptorBaseTable(schema string) *Table {
	t := NewTable(schema, DescriptorTableName)
	t.Description = "This is the base entity for the descriptor pattern."
	t.IsAbstract = true
	t.AddColumn(&Column{Name: DescriptorIDColumnName, DataType: DataTypeInteger, IsPartOfPrimaryKey: true, IsIdentityDatabaseType: true})
	t.AddColumn(&Column{Name: "Namespace", DataType: DataTypeString, Length: "255"})
	t.AddColumn(&Column{Name: "CodeValue", DataType: DataTypeString, Length: "50"})
	t.AddColumn(&Column{Name: "ShortDescription", DataType: DataTypeString, Length: "75"})
	t.AddColumn(&Column{Name: "Description", DataType: DataTypeString, Length: "1024", IsNullable: true})
	t.AddColumn(&Column{Name: "PriorDescriptorId", DataType: DataTypeInteger, IsNullable: true})
	t.AddColumn(&Column{Name: "EffectiveBeginDate", DataType: DataTypeDate, IsNullable: true})
	t.AddColumn(&Column{Name: "EffectiveEndDate", DataType: DataTypeDate, IsNullable: true})
	return t
}

// MainTableEnhancer creates an empty main table for every entity that owns
// one. Extension tables live in the extension's own schema.
func MainTableEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "MainTableEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	for _, ns := range metaEd.Namespaces() {
		tables := TablesFor(ns)
		for _, entity := range ns.Entity.TopLevelEntities(mainTableTypes...) {
			data := TablesOf(entity)
			if data.MainTable != nil {
				continue
			}
			t := NewTable(SchemaName(ns), MainTableName(entity))
			t.Description = entity.Documentation
			t.ParentEntity = entity
			t.IsAbstract = entity.IsAbstract
			t.IsExtensionTable = entity.Type.IsExtension()
			t.IsTypeTable = entity.Type == model.ModelTypeEnumeration ||
				entity.Type == model.ModelTypeMapTypeEnumeration ||
				entity.Type == model.ModelTypeSchoolYearEnumeration

			if err := tables.Register(t); err != nil {
				metaEd.AddValidationFailure(duplicateTable(name, entity, err))
				continue
			}
			data.MainTable = t
			data.Tables = append(data.Tables, t)
		}
	}
	return enhancer.Ok(name)
}

func duplicateTable(enhancerName string, entity *model.TopLevelEntity, err error) model.ValidationFailure {
	return model.ValidationFailure{
		ValidatorName: enhancerName,
		Category:      model.CategoryError,
		Message:       fmt.Sprintf("%s %s: %v", entity.Type, entity.MetaEdName, err),
		SourceMap:     entity.SourceMap.MetaEdName,
	}
}
