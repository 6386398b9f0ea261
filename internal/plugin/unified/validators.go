package unified

import (
	"fmt"

	"github.com/metaed-lang/metaed/internal/core/model"
)

func failure(validatorName, message string, sm model.SourceMap) model.ValidationFailure {
	return model.ValidationFailure{
		ValidatorName: validatorName,
		Category:      model.CategoryError,
		Message:       message,
		SourceMap:     sm,
	}
}

func inChain(ns *model.Namespace, namespaceName string) bool {
	for _, candidate := range ns.Chain() {
		if candidate.NamespaceName == namespaceName {
			return true
		}
	}
	return false
}

func referencingProperties(metaEd *model.MetaEdEnvironment) []*model.EntityProperty {
	var result []*model.EntityProperty
	for _, t := range model.AllPropertyTypes {
		if t.IsReference() || t.IsSharedSimple() {
			result = append(result, metaEd.PropertyIndex.OfType(t)...)
		}
	}
	return result
}

// ReferencedNamespaceMustBeDependency reports properties whose declared
// namespace is neither their own nor one of its dependencies.
func ReferencedNamespaceMustBeDependency(metaEd *model.MetaEdEnvironment) []model.ValidationFailure {
	var failures []model.ValidationFailure
	for _, p := range referencingProperties(metaEd) {
		if p.Namespace.IsSentinel() || inChain(p.Namespace, p.ReferencedNamespaceName) {
			continue
		}
		failures = append(failures, failure("ReferencedNamespaceMustBeDependency",
			fmt.Sprintf("%s property %s on %s references namespace %s, which is not a dependency of %s",
				p.Type, p.MetaEdName, p.ParentEntityName, p.ReferencedNamespaceName, p.Namespace.NamespaceName),
			p.SourceMap.ReferencedNamespaceName))
	}
	return failures
}

// ReferencedEntityMustExist reports reference properties whose name cannot be
// found in the declared namespace.
func ReferencedEntityMustExist(metaEd *model.MetaEdEnvironment) []model.ValidationFailure {
	var failures []model.ValidationFailure
	for _, p := range referencingProperties(metaEd) {
		if p.Namespace.IsSentinel() || !inChain(p.Namespace, p.ReferencedNamespaceName) {
			continue
		}
		found := model.GetEntityFromNamespaceChain(p.ReferencedTypeName(), p.ReferencedNamespaceName,
			p.Namespace, p.Type.ReferencedModelTypes()...)
		if found != nil {
			continue
		}
		failures = append(failures, failure("ReferencedEntityMustExist",
			fmt.Sprintf("%s property %s on %s does not match any %s in namespace %s",
				p.Type, p.MetaEdName, p.ParentEntityName, p.Type, p.ReferencedNamespaceName),
			p.SourceMap.MetaEdName))
	}
	return failures
}

// BaseEntityMustExist reports subclasses and extensions whose base cannot be found.
func BaseEntityMustExist(metaEd *model.MetaEdEnvironment) []model.ValidationFailure {
	var failures []model.ValidationFailure
	kinds := make([]model.ModelType, 0, len(baseTypes))
	for _, t := range model.TopLevelEntityModelTypes {
		if _, ok := baseTypes[t]; ok {
			kinds = append(kinds, t)
		}
	}
	for _, entity := range model.AllTopLevelEntities(metaEd, kinds...) {
		if entity.BaseEntity != nil {
			continue
		}
		if _, ok := resolveBase(entity); ok {
			continue
		}
		failures = append(failures, failure("BaseEntityMustExist",
			fmt.Sprintf("%s %s is based on %s.%s, which cannot be found",
				entity.Type, entity.MetaEdName, entity.BaseEntityNamespaceName, entity.BaseEntityName),
			entity.EntitySourceMap.BaseEntityName))
	}
	return failures
}
