package unified

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

// OutReferencePathEnhancer records on each entity every chain of resolved
// reference properties reachable from it. A chain ends at an entity with no
// further references or one already on the chain.
func OutReferencePathEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "OutReferencePathEnhancer"
	for _, entity := range model.AllTopLevelEntities(metaEd, model.TopLevelEntityModelTypes...) {
		if len(entity.OutReferencePaths) > 0 {
			continue
		}
		visited := map[*model.TopLevelEntity]bool{entity: true}
		walkOutReferences(entity, entity, nil, visited)
	}
	return enhancer.Ok(name)
}

func walkOutReferences(root, current *model.TopLevelEntity, path []*model.EntityProperty, visited map[*model.TopLevelEntity]bool) {
	for _, p := range current.OutReferences {
		next, ok := p.ReferencedTopLevelEntity()
		if !ok {
			continue
		}
		extended := make([]*model.EntityProperty, len(path)+1)
		copy(extended, path)
		extended[len(path)] = p
		root.AddOutReferencePath(extended)

		if visited[next] {
			continue
		}
		visited[next] = true
		walkOutReferences(root, next, extended, visited)
		delete(visited, next)
	}
}
