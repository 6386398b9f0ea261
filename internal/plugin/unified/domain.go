package unified

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

// itemTypes widens an item's declared kind to the kinds it may resolve to.
func itemTypes(t model.ModelType) []model.ModelType {
	switch t {
	case model.ModelTypeDomainEntity:
		return []model.ModelType{model.ModelTypeDomainEntity, model.ModelTypeDomainEntitySubclass}
	case model.ModelTypeAssociation:
		return []model.ModelType{model.ModelTypeAssociation, model.ModelTypeAssociationSubclass}
	case model.ModelTypeCommon:
		return []model.ModelType{model.ModelTypeCommon, model.ModelTypeCommonSubclass}
	}
	return []model.ModelType{t}
}

// DomainItemEnhancer resolves the entities listed by domains and subdomains.
func DomainItemEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "DomainItemEnhancer"
	for _, ns := range metaEd.Namespaces() {
		for _, t := range []model.ModelType{model.ModelTypeDomain, model.ModelTypeSubdomain} {
			for _, e := range ns.Entity.All(t) {
				domain, ok := model.AsDomain(e)
				if !ok {
					continue
				}
				for _, item := range domain.DomainItems {
					if !model.IsNoEntity(item.ReferencedEntity) {
						continue
					}
					found := model.GetEntityFromNamespaceChain(item.MetaEdName, item.ReferencedNamespaceName, ns,
						itemTypes(item.ReferencedType)...)
					if found != nil {
						item.ReferencedEntity = found
					}
				}
			}
		}
	}
	return enhancer.Ok(name)
}

// SubdomainParentEnhancer links each subdomain to its parent domain.
func SubdomainParentEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "SubdomainParentEnhancer"
	for _, ns := range metaEd.Namespaces() {
		for _, e := range ns.Entity.All(model.ModelTypeSubdomain) {
			subdomain, ok := model.AsDomain(e)
			if !ok || subdomain.ParentEntity != nil {
				continue
			}
			parent, ok := model.AsDomain(model.GetEntityFromNamespace(subdomain.ParentEntityName, ns, model.ModelTypeDomain))
			if !ok {
				continue
			}
			subdomain.ParentEntity = parent
			parent.Subdomains = append(parent.Subdomains, subdomain)
		}
	}
	return enhancer.Ok(name)
}

// InterchangeItemEnhancer resolves interchange elements and identity templates.
func InterchangeItemEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "InterchangeItemEnhancer"
	for _, ns := range metaEd.Namespaces() {
		for _, t := range []model.ModelType{model.ModelTypeInterchange, model.ModelTypeInterchangeExtension} {
			for _, e := range ns.Entity.All(t) {
				interchange, ok := model.AsInterchange(e)
				if !ok {
					continue
				}
				items := append(append([]*model.InterchangeItem{}, interchange.Elements...), interchange.IdentityTemplates...)
				for _, item := range items {
					if !model.IsNoEntity(item.ReferencedEntity) {
						continue
					}
					found := model.GetEntityFromNamespaceChain(item.MetaEdName, item.ReferencedNamespaceName, ns,
						itemTypes(item.ReferencedType)...)
					if found != nil {
						item.ReferencedEntity = found
					}
				}
			}
		}
	}
	return enhancer.Ok(name)
}
