package model

import "fmt"

// EntityRepository holds one namespace's elements, one name-keyed bucket per ModelType.
// Buckets preserve insertion order.
type EntityRepository struct {
	buckets map[ModelType]*bucket
}

type bucket struct {
	byName map[string]ModelElement
	order  []string
}

// NewEntityRepository returns a repository with an empty bucket for every ModelType.
func NewEntityRepository() *EntityRepository {
	r := &EntityRepository{buckets: make(map[ModelType]*bucket, len(AllModelTypes))}
	for _, t := range AllModelTypes {
		r.buckets[t] = &bucket{byName: make(map[string]ModelElement)}
	}
	return r
}

// AddEntity inserts entity into the bucket for its Type, keyed by MetaEdName.
// A duplicate name replaces the earlier element in place.
func AddEntity(repository *EntityRepository, entity ModelElement) {
	repository.Add(entity)
}

// Add inserts entity into the bucket for its Type. It panics on a Type outside
// the fixed bucket set.
func (r *EntityRepository) Add(entity ModelElement) {
	base := entity.Base()
	b, ok := r.buckets[base.Type]
	if !ok {
		panic(fmt.Sprintf("model: no repository bucket for type %q", base.Type))
	}
	if _, exists := b.byName[base.MetaEdName]; !exists {
		b.order = append(b.order, base.MetaEdName)
	}
	b.byName[base.MetaEdName] = entity
}

// Get returns the element of type t named name.
func (r *EntityRepository) Get(t ModelType, name string) (ModelElement, bool) {
	b, ok := r.buckets[t]
	if !ok {
		return nil, false
	}
	e, ok := b.byName[name]
	return e, ok
}

// All returns the elements of type t in insertion order.
func (r *EntityRepository) All(t ModelType) []ModelElement {
	b, ok := r.buckets[t]
	if !ok {
		return nil
	}
	result := make([]ModelElement, 0, len(b.order))
	for _, name := range b.order {
		result = append(result, b.byName[name])
	}
	return result
}

// Count returns the number of elements of type t.
func (r *EntityRepository) Count(t ModelType) int {
	if b, ok := r.buckets[t]; ok {
		return len(b.order)
	}
	return 0
}

// TopLevelEntities returns the TopLevelEntity elements of the given types,
// grouped by type in argument order.
func (r *EntityRepository) TopLevelEntities(types ...ModelType) []*TopLevelEntity {
	var result []*TopLevelEntity
	for _, t := range types {
		for _, e := range r.All(t) {
			if entity, ok := AsTopLevelEntity(e); ok {
				result = append(result, entity)
			}
		}
	}
	return result
}

// SharedSimples returns every shared simple type in the repository.
func (r *EntityRepository) SharedSimples() []*SharedSimple {
	var result []*SharedSimple
	for _, t := range []ModelType{ModelTypeSharedDecimal, ModelTypeSharedInteger, ModelTypeSharedString} {
		for _, e := range r.All(t) {
			if s, ok := AsSharedSimple(e); ok {
				result = append(result, s)
			}
		}
	}
	return result
}
