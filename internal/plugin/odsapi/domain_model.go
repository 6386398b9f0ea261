package odsapi

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// DomainModelDefinitionEnhancer assembles the per namespace API metadata.
func DomainModelDefinitionEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "DomainModelDefinitionEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	for _, ns := range metaEd.Namespaces() {
		data := DataFor(ns)
		data.DomainModelDefinition = &DomainModelDefinition{
			OdsAPIVersion: metaEd.TargetTechnologyVersion(PluginName),
			SchemaDefinition: SchemaDefinition{
				LogicalName:  logicalName(ns),
				PhysicalName: relational.SchemaName(ns),
			},
			Aggregates:             nonNil(data.Aggregates),
			AggregateExtensions:    nonNil(data.AggregateExtensions),
			EntityDefinitions:      nonNil(data.EntityDefinitions),
			AssociationDefinitions: nonNil(data.AssociationDefinitions),
		}
	}
	return enhancer.Ok(name)
}

func logicalName(ns *model.Namespace) string {
	if ns.ProjectName != "" {
		return ns.ProjectName
	}
	return ns.NamespaceName
}

// nonNil keeps empty lists as [] in JSON output.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
