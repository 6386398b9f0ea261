package odsapi

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

var aggregateRootTypes = []model.ModelType{
	model.ModelTypeDomainEntity,
	model.ModelTypeDomainEntitySubclass,
	model.ModelTypeAssociation,
	model.ModelTypeAssociationSubclass,
	model.ModelTypeDescriptor,
}

var aggregateExtensionTypes = []model.ModelType{
	model.ModelTypeDomainEntityExtension,
	model.ModelTypeAssociationExtension,
}

// AggregateEnhancer groups each root table with its child tables. Extension
// tables become aggregate extensions of the base entity's aggregate.
func AggregateEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "AggregateEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	for _, ns := range metaEd.Namespaces() {
		data := DataFor(ns)
		data.Aggregates = nil
		data.AggregateExtensions = nil

		for _, entity := range ns.Entity.TopLevelEntities(aggregateRootTypes...) {
			tables := relational.TablesOf(entity)
			if tables.MainTable == nil {
				continue
			}
			data.Aggregates = append(data.Aggregates, &Aggregate{
				AggregateName:          tables.MainTable.Name,
				Schema:                 tables.MainTable.Schema,
				AllowPrimaryKeyUpdates: entity.AllowPrimaryKeyUpdates,
				IsAbstract:             entity.IsAbstract,
				EntityTables:           entityTables(tables),
			})
		}

		for _, entity := range ns.Entity.TopLevelEntities(aggregateExtensionTypes...) {
			tables := relational.TablesOf(entity)
			if tables.MainTable == nil || entity.BaseEntity == nil {
				continue
			}
			data.AggregateExtensions = append(data.AggregateExtensions, &AggregateExtension{
				FullName: FullName{
					Schema: relational.SchemaName(entity.BaseEntity.Namespace),
					Name:   relational.MainTableName(entity.BaseEntity),
				},
				EntityTables: entityTables(tables),
			})
		}
	}
	return enhancer.Ok(name)
}

// entityTables lists the main table, then every table that reaches it through
// ParentTable links.
func entityTables(tables *relational.EntityTables) []EntityTable {
	var result []EntityTable
	for _, t := range tables.Tables {
		if !reaches(t, tables.MainTable) {
			continue
		}
		result = append(result, EntityTable{
			Schema:               t.Schema,
			Table:                t.Name,
			IsRequiredCollection: t.IsRequiredCollectionTable,
		})
	}
	return result
}

func reaches(t, root *relational.Table) bool {
	for ; t != nil; t = t.ParentTable {
		if t == root {
			return true
		}
	}
	return false
}

// aggregatesContaining returns every aggregate of the run holding the named table.
func aggregatesContaining(metaEd *model.MetaEdEnvironment, schema, table string) []*Aggregate {
	var result []*Aggregate
	for _, ns := range metaEd.Namespaces() {
		data, _ := LookupData(ns)
		for _, a := range data.Aggregates {
			if a.Contains(schema, table) {
				result = append(result, a)
			}
		}
	}
	return result
}
