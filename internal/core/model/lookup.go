package model

// GetEntityFromNamespace scans modelTypes in order within namespace and returns
// the first element named name, or nil.
func GetEntityFromNamespace(name string, namespace *Namespace, modelTypes ...ModelType) ModelElement {
	if namespace == nil {
		return nil
	}
	for _, t := range modelTypes {
		if e, ok := namespace.Entity.Get(t, name); ok {
			return e
		}
	}
	return nil
}

// GetEntityFromNamespaceChain resolves name within the namespace named
// entityNamespaceName, searched among [workingNamespace, ...dependencies].
// Filtering by the declared namespace keeps an extension's local entity from
// shadowing a same-named entity in a dependency.
func GetEntityFromNamespaceChain(name, entityNamespaceName string, workingNamespace *Namespace, modelTypes ...ModelType) ModelElement {
	if workingNamespace == nil {
		return nil
	}
	for _, ns := range workingNamespace.Chain() {
		if ns.NamespaceName != entityNamespaceName {
			continue
		}
		return GetEntityFromNamespace(name, ns, modelTypes...)
	}
	return nil
}

// FindFirstEntity scans namespaces in order and returns the first element named name.
func FindFirstEntity(name string, namespaces []*Namespace, modelTypes ...ModelType) ModelElement {
	for _, ns := range namespaces {
		if e := GetEntityFromNamespace(name, ns, modelTypes...); e != nil {
			return e
		}
	}
	return nil
}

// AllTopLevelEntities returns the TopLevelEntity elements of the given types across
// every namespace, in namespace registration order.
func AllTopLevelEntities(metaEd *MetaEdEnvironment, types ...ModelType) []*TopLevelEntity {
	var result []*TopLevelEntity
	for _, ns := range metaEd.Namespaces() {
		result = append(result, ns.Entity.TopLevelEntities(types...)...)
	}
	return result
}
