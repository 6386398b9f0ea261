package unified

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

// baseTypes lists, per subclass or extension kind, the kinds its base may be.
var baseTypes = map[model.ModelType][]model.ModelType{
	model.ModelTypeDomainEntitySubclass:  {model.ModelTypeDomainEntity},
	model.ModelTypeAssociationSubclass:   {model.ModelTypeAssociation},
	model.ModelTypeCommonSubclass:        {model.ModelTypeCommon},
	model.ModelTypeDomainEntityExtension: {model.ModelTypeDomainEntity, model.ModelTypeDomainEntitySubclass},
	model.ModelTypeAssociationExtension:  {model.ModelTypeAssociation, model.ModelTypeAssociationSubclass},
	model.ModelTypeCommonExtension:       {model.ModelTypeCommon, model.ModelTypeCommonSubclass},
}

func baseClassEnhancer(name string, t model.ModelType) enhancer.Enhancer {
	return func(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
		for _, entity := range model.AllTopLevelEntities(metaEd, t) {
			if entity.BaseEntity != nil {
				continue
			}
			base, ok := resolveBase(entity)
			if !ok {
				continue
			}
			entity.SetBaseEntity(base)
			if t.IsExtension() {
				base.AddExtendedBy(entity)
			} else {
				base.AddSubclassedBy(entity)
			}
		}
		return enhancer.Ok(name)
	}
}

func resolveBase(entity *model.TopLevelEntity) (*model.TopLevelEntity, bool) {
	if entity.BaseEntityName == "" {
		return nil, false
	}
	found := model.GetEntityFromNamespaceChain(entity.BaseEntityName, entity.BaseEntityNamespaceName,
		entity.Namespace, baseTypes[entity.Type]...)
	if found == nil {
		return nil, false
	}
	return model.AsTopLevelEntity(found)
}

var (
	DomainEntitySubclassBaseClassEnhancer = baseClassEnhancer(
		"DomainEntitySubclassBaseClassEnhancer", model.ModelTypeDomainEntitySubclass)
	AssociationSubclassBaseClassEnhancer = baseClassEnhancer(
		"AssociationSubclassBaseClassEnhancer", model.ModelTypeAssociationSubclass)
	CommonSubclassBaseClassEnhancer = baseClassEnhancer(
		"CommonSubclassBaseClassEnhancer", model.ModelTypeCommonSubclass)
	DomainEntityExtensionBaseClassEnhancer = baseClassEnhancer(
		"DomainEntityExtensionBaseClassEnhancer", model.ModelTypeDomainEntityExtension)
	AssociationExtensionBaseClassEnhancer = baseClassEnhancer(
		"AssociationExtensionBaseClassEnhancer", model.ModelTypeAssociationExtension)
	CommonExtensionBaseClassEnhancer = baseClassEnhancer(
		"CommonExtensionBaseClassEnhancer", model.ModelTypeCommonExtension)
)

// InterchangeExtensionBaseClassEnhancer links interchange extensions to the
// interchange they extend.
func InterchangeExtensionBaseClassEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "InterchangeExtensionBaseClassEnhancer"
	for _, ns := range metaEd.Namespaces() {
		for _, e := range ns.Entity.All(model.ModelTypeInterchangeExtension) {
			extension, ok := model.AsInterchange(e)
			if !ok || extension.BaseEntity != nil {
				continue
			}
			found := model.GetEntityFromNamespaceChain(extension.BaseEntityName, extension.BaseEntityNamespaceName,
				ns, model.ModelTypeInterchange)
			base, ok := model.AsInterchange(found)
			if !ok {
				continue
			}
			extension.BaseEntity = base
			base.ExtendedBy = append(base.ExtendedBy, extension)
		}
	}
	return enhancer.Ok(name)
}
