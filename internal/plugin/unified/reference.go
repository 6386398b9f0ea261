package unified

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

func referenceEnhancer(name string, t model.PropertyType) enhancer.Enhancer {
	return func(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
		for _, p := range metaEd.PropertyIndex.OfType(t) {
			resolveReference(p)
		}
		return enhancer.Ok(name)
	}
}

// resolveReference links p to the element it names in its declared namespace.
// An unresolvable name leaves the sentinel in place.
func resolveReference(p *model.EntityProperty) bool {
	if p.IsResolved() {
		return true
	}
	found := model.GetEntityFromNamespaceChain(p.ReferencedTypeName(), p.ReferencedNamespaceName,
		p.Namespace, p.Type.ReferencedModelTypes()...)
	if found == nil {
		return false
	}

	p.SetReferencedEntity(found)
	switch referenced := found.(type) {
	case *model.TopLevelEntity:
		referenced.AddInReference(p)
	case *model.SharedSimple:
		referenced.AddInReference(p)
	}
	if !p.ParentEntity.IsSentinel() {
		p.ParentEntity.AddOutReference(p)
	}
	return true
}

var (
	AssociationReferenceEnhancer = referenceEnhancer(
		"AssociationReferenceEnhancer", model.PropertyTypeAssociation)
	ChoiceReferenceEnhancer = referenceEnhancer(
		"ChoiceReferenceEnhancer", model.PropertyTypeChoice)
	CommonReferenceEnhancer = referenceEnhancer(
		"CommonReferenceEnhancer", model.PropertyTypeCommon)
	DescriptorReferenceEnhancer = referenceEnhancer(
		"DescriptorReferenceEnhancer", model.PropertyTypeDescriptor)
	DomainEntityReferenceEnhancer = referenceEnhancer(
		"DomainEntityReferenceEnhancer", model.PropertyTypeDomainEntity)
	EnumerationReferenceEnhancer = referenceEnhancer(
		"EnumerationReferenceEnhancer", model.PropertyTypeEnumeration)
	InlineCommonReferenceEnhancer = referenceEnhancer(
		"InlineCommonReferenceEnhancer", model.PropertyTypeInlineCommon)
	SchoolYearEnumerationReferenceEnhancer = referenceEnhancer(
		"SchoolYearEnumerationReferenceEnhancer", model.PropertyTypeSchoolYearEnumeration)
	SharedDecimalReferenceEnhancer = referenceEnhancer(
		"SharedDecimalReferenceEnhancer", model.PropertyTypeSharedDecimal)
	SharedIntegerReferenceEnhancer = referenceEnhancer(
		"SharedIntegerReferenceEnhancer", model.PropertyTypeSharedInteger)
	SharedShortReferenceEnhancer = referenceEnhancer(
		"SharedShortReferenceEnhancer", model.PropertyTypeSharedShort)
	SharedStringReferenceEnhancer = referenceEnhancer(
		"SharedStringReferenceEnhancer", model.PropertyTypeSharedString)
)

// ReferenceEnhancers returns one resolution pass per referencing property kind.
func ReferenceEnhancers() []enhancer.Enhancer {
	return []enhancer.Enhancer{
		AssociationReferenceEnhancer,
		ChoiceReferenceEnhancer,
		CommonReferenceEnhancer,
		DescriptorReferenceEnhancer,
		DomainEntityReferenceEnhancer,
		EnumerationReferenceEnhancer,
		InlineCommonReferenceEnhancer,
		SchoolYearEnumerationReferenceEnhancer,
		SharedDecimalReferenceEnhancer,
		SharedIntegerReferenceEnhancer,
		SharedShortReferenceEnhancer,
		SharedStringReferenceEnhancer,
	}
}
