package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityPropertyDefaultsToSentinel(t *testing.T) {
	tests := []struct {
		propertyType PropertyType
		expected     ModelElement
	}{
		{PropertyTypeAssociation, NoAssociation},
		{PropertyTypeChoice, NoChoice},
		{PropertyTypeCommon, NoCommon},
		{PropertyTypeInlineCommon, NoInlineCommon},
		{PropertyTypeDescriptor, NoDescriptor},
		{PropertyTypeDomainEntity, NoDomainEntity},
		{PropertyTypeEnumeration, NoEnumeration},
		{PropertyTypeSchoolYearEnumeration, NoEnumeration},
		{PropertyTypeSharedDecimal, NoSharedSimple},
		{PropertyTypeSharedInteger, NoSharedSimple},
		{PropertyTypeSharedShort, NoSharedSimple},
		{PropertyTypeSharedString, NoSharedSimple},
		{PropertyTypeInteger, NoTopLevelEntity},
		{PropertyTypeString, NoTopLevelEntity},
	}

	for _, tt := range tests {
		t.Run(string(tt.propertyType), func(t *testing.T) {
			p := NewEntityProperty(tt.propertyType)
			require.NotNil(t, p.ReferencedEntity)
			assert.Same(t, tt.expected, p.ReferencedEntity)
			assert.False(t, p.IsResolved())
			assert.Same(t, NoTopLevelEntity, p.ParentEntity)
			assert.Same(t, NoNamespace, p.Namespace)
		})
	}
}

func TestNewTopLevelEntityDefaults(t *testing.T) {
	e := NewDomainEntity()

	assert.Equal(t, ModelTypeDomainEntity, e.Type)
	assert.Same(t, NoNamespace, e.Namespace)
	assert.Same(t, NoEnumeration, e.MapTypeEnumeration)
	assert.Nil(t, e.BaseEntity)
	assert.NotNil(t, e.Properties)
	assert.NotNil(t, e.InReferences)
	assert.NotNil(t, e.OutReferences)
	assert.True(t, e.SourceMap.MetaEdName.IsNone())
	assert.False(t, e.IsSentinel())
}

func TestSentinelsRejectMutation(t *testing.T) {
	p := NewDomainEntityProperty()

	assert.Panics(t, func() { NoDomainEntity.AddInReference(p) })
	assert.Panics(t, func() { NoTopLevelEntity.AddOutReference(p) })
	assert.Panics(t, func() { NoCommon.AddProperty(p) })
	assert.Panics(t, func() { NoSharedSimple.AddInReference(p) })
	assert.Panics(t, func() { NoEntityProperty.SetReferencedEntity(NewDomainEntity()) })
	assert.Panics(t, func() { NoNamespace.AddEntity(NewDomainEntity()) })

	assert.Empty(t, NoDomainEntity.InReferences)
	assert.Empty(t, NoTopLevelEntity.OutReferences)
	assert.True(t, IsNoEntity(NoDomainEntity))
	assert.True(t, IsNoEntity(NoSharedSimple))
	assert.True(t, IsNoEntity(nil))
}

func TestAddPropertyMaintainsIdentityAndParent(t *testing.T) {
	ns := NewNamespace("EdFi")
	entity := NewDomainEntity()
	entity.MetaEdName = "Student"
	ns.AddEntity(entity)

	id := NewEntityProperty(PropertyTypeString)
	id.MetaEdName = "StudentUniqueId"
	id.IsPartOfIdentity = true
	id.IsQueryableField = true
	name := NewEntityProperty(PropertyTypeString)
	name.MetaEdName = "FirstName"

	entity.AddProperty(id)
	entity.AddProperty(name)

	assert.Len(t, entity.Properties, 2)
	assert.Equal(t, []*EntityProperty{id}, entity.IdentityProperties)
	assert.Equal(t, []*EntityProperty{id}, entity.QueryableFields)
	assert.Same(t, entity, name.ParentEntity)
	assert.Equal(t, "Student", name.ParentEntityName)
	assert.Same(t, ns, name.Namespace)
}

func TestEntityRepository(t *testing.T) {
	t.Run("insertion order and overwrite", func(t *testing.T) {
		repo := NewEntityRepository()
		first := NewDomainEntity()
		first.MetaEdName = "B"
		second := NewDomainEntity()
		second.MetaEdName = "A"
		replacement := NewDomainEntity()
		replacement.MetaEdName = "B"

		AddEntity(repo, first)
		AddEntity(repo, second)
		AddEntity(repo, replacement)

		all := repo.All(ModelTypeDomainEntity)
		require.Len(t, all, 2)
		assert.Same(t, replacement, all[0])
		assert.Same(t, second, all[1])
		assert.Equal(t, 0, repo.Count(ModelTypeAssociation))
	})

	t.Run("buckets are per type", func(t *testing.T) {
		repo := NewEntityRepository()
		de := NewDomainEntity()
		de.MetaEdName = "Same"
		assoc := NewAssociation()
		assoc.MetaEdName = "Same"
		repo.Add(de)
		repo.Add(assoc)

		got, ok := repo.Get(ModelTypeDomainEntity, "Same")
		require.True(t, ok)
		assert.Same(t, de, got)
		got, ok = repo.Get(ModelTypeAssociation, "Same")
		require.True(t, ok)
		assert.Same(t, assoc, got)
	})

	t.Run("unknown bucket panics", func(t *testing.T) {
		repo := NewEntityRepository()
		assert.Panics(t, func() { repo.Add(NewTopLevelEntity(ModelType("bogus"))) })
	})
}

func TestNamespaceDependencies(t *testing.T) {
	core := NewNamespace("EdFi")
	ext := NewNamespace("Extension")
	ext.IsExtension = true

	require.NoError(t, ext.AddDependency(core))
	assert.ErrorIs(t, core.AddDependency(core), ErrDependencyCycle)
	assert.ErrorIs(t, core.AddDependency(ext), ErrDependencyCycle)

	assert.Equal(t, []*Namespace{ext, core}, ext.Chain())
	found, ok := ext.CoreNamespace()
	require.True(t, ok)
	assert.Same(t, core, found)
}

func TestLookup(t *testing.T) {
	core := NewNamespace("EdFi")
	ext := NewNamespace("Extension")
	ext.IsExtension = true
	require.NoError(t, ext.AddDependency(core))

	coreX := NewDomainEntity()
	coreX.MetaEdName = "X"
	core.AddEntity(coreX)
	extX := NewDomainEntity()
	extX.MetaEdName = "X"
	ext.AddEntity(extX)
	target := NewDomainEntitySubclass()
	target.MetaEdName = "Target"
	core.AddEntity(target)

	t.Run("namespace-qualified resolution filters by name", func(t *testing.T) {
		got := GetEntityFromNamespaceChain("X", "EdFi", ext, ModelTypeDomainEntity)
		assert.Same(t, coreX, got)
		got = GetEntityFromNamespaceChain("X", "Extension", ext, ModelTypeDomainEntity)
		assert.Same(t, extX, got)
	})

	t.Run("unqualified search takes first hit", func(t *testing.T) {
		got := FindFirstEntity("X", ext.Chain(), ModelTypeDomainEntity)
		assert.Same(t, extX, got)
	})

	t.Run("model types scanned in order", func(t *testing.T) {
		got := GetEntityFromNamespaceChain("Target", "EdFi", ext, ModelTypeDomainEntity, ModelTypeDomainEntitySubclass)
		assert.Same(t, target, got)
		assert.Nil(t, GetEntityFromNamespace("Target", core, ModelTypeDomainEntity))
	})

	t.Run("namespace outside chain", func(t *testing.T) {
		assert.Nil(t, GetEntityFromNamespaceChain("X", "Other", ext, ModelTypeDomainEntity))
		assert.Nil(t, GetEntityFromNamespaceChain("X", "Extension", core, ModelTypeDomainEntity))
	})
}

func TestMetaEdEnvironment(t *testing.T) {
	metaEd := NewMetaEdEnvironment()
	metaEd.AddNamespace(NewNamespace("EdFi"))
	metaEd.AddNamespace(NewNamespace("Sample"))
	metaEd.AddPlugin("edfi-odsapi", "7.1.0")

	names := []string{}
	for _, ns := range metaEd.Namespaces() {
		names = append(names, ns.NamespaceName)
	}
	assert.Equal(t, []string{"EdFi", "Sample"}, names)
	assert.Equal(t, "7.1.0", metaEd.TargetTechnologyVersion("edfi-odsapi"))
	assert.Equal(t, "", metaEd.TargetTechnologyVersion("missing"))

	assert.False(t, metaEd.HasErrors())
	metaEd.AddValidationFailure(ValidationFailure{ValidatorName: "v", Category: CategoryWarning})
	assert.False(t, metaEd.HasErrors())
	metaEd.AddValidationFailure(ValidationFailure{ValidatorName: "v", Category: CategoryError})
	assert.True(t, metaEd.HasErrors())
}

func TestSetReferencedEntityPropagatesDeprecation(t *testing.T) {
	target := NewDomainEntity()
	target.IsDeprecated = true
	p := NewDomainEntityProperty()

	p.SetReferencedEntity(target)

	assert.True(t, p.IsResolved())
	assert.True(t, p.ReferencedEntityDeprecated)
	resolved, ok := p.ReferencedTopLevelEntity()
	require.True(t, ok)
	assert.Same(t, target, resolved)
}
