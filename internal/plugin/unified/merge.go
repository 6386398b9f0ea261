package unified

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

// MergeDirectiveEnhancer resolves each merge directive's source and target
// paths into property chains. A path segment names a property by its role
// qualified name; each segment after the first is looked up on the entity the
// previous segment references. Unresolvable paths leave the directive unresolved.
func MergeDirectiveEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "MergeDirectiveEnhancer"
	for _, entity := range model.AllTopLevelEntities(metaEd, model.TopLevelEntityModelTypes...) {
		for _, p := range entity.Properties {
			for _, directive := range p.MergeDirectives {
				if !directive.TargetProperty.IsSentinel() {
					continue
				}
				source, ok := resolvePath(entity, directive.SourcePropertyPathStrings)
				if !ok {
					continue
				}
				target, ok := resolvePath(entity, directive.TargetPropertyPathStrings)
				if !ok {
					continue
				}
				directive.SourcePropertyChain = source
				directive.TargetPropertyChain = target
				directive.SourceProperty = source[len(source)-1]
				directive.TargetProperty = target[len(target)-1]
				directive.SourceProperty.MergeSourceReferences = append(directive.SourceProperty.MergeSourceReferences, directive)
			}
		}
	}
	return enhancer.Ok(name)
}

func resolvePath(entity *model.TopLevelEntity, path []string) ([]*model.EntityProperty, bool) {
	if len(path) == 0 {
		return nil, false
	}
	chain := make([]*model.EntityProperty, 0, len(path))
	current := entity
	for i, segment := range path {
		p, ok := findProperty(current, segment)
		if !ok {
			return nil, false
		}
		chain = append(chain, p)
		if i == len(path)-1 {
			break
		}
		next, ok := p.ReferencedTopLevelEntity()
		if !ok {
			return nil, false
		}
		current = next
	}
	return chain, true
}

// findProperty looks in entity and then up its base entity chain.
func findProperty(entity *model.TopLevelEntity, fullName string) (*model.EntityProperty, bool) {
	for e := entity; e != nil; e = e.BaseEntity {
		if p, ok := e.PropertyNamed(fullName); ok {
			return p, true
		}
	}
	return nil, false
}
