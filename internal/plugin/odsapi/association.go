package odsapi

import (
	"fmt"

	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// AssociationDefinitionEnhancer describes every foreign key. A foreign key to a
// table no namespace holds is an internal error and stops the run.
func AssociationDefinitionEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "AssociationDefinitionEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	for _, ns := range metaEd.Namespaces() {
		var definitions []*AssociationDefinition
		tables, _ := relational.LookupTables(ns)
		for _, t := range tables.All() {
			for _, fk := range t.ForeignKeys {
				definition, err := associationDefinition(metaEd, t, fk)
				if err != nil {
					return enhancer.Result{EnhancerName: name}, err
				}
				definitions = append(definitions, definition)
			}
		}
		DataFor(ns).AssociationDefinitions = definitions
	}
	return enhancer.Ok(name)
}

func associationDefinition(metaEd *model.MetaEdEnvironment, parent *relational.Table, fk *relational.ForeignKey) (*AssociationDefinition, error) {
	foreign, ok := relational.FindTable(metaEd, fk.ForeignTableSchema, fk.ForeignTableName)
	if !ok {
		return nil, fmt.Errorf("BuildAssociationDefinitions: could not find table '%s.%s'", fk.ForeignTableSchema, fk.ForeignTableName)
	}

	definition := &AssociationDefinition{
		FullName:                FullName{Schema: parent.Schema, Name: fk.Name},
		PrimaryEntityFullName:   FullName{Schema: foreign.Schema, Name: foreign.Name},
		SecondaryEntityFullName: FullName{Schema: parent.Schema, Name: parent.Name},
		ConstraintName:          fk.Name,
		IsIdentifying:           len(fk.ColumnPairs) > 0,
		IsRequired:              len(fk.ColumnPairs) > 0,
		ForeignKey:              fk,
		PrimaryTable:            foreign,
		SecondaryTable:          parent,
	}
	for _, pair := range fk.ColumnPairs {
		if c, ok := foreign.Column(pair.ForeignTableColumnName); ok {
			definition.PrimaryEntityProperties = append(definition.PrimaryEntityProperties, apiProperty(c))
		}
		c, ok := parent.Column(pair.ParentTableColumnName)
		if !ok {
			definition.IsIdentifying = false
			definition.IsRequired = false
			continue
		}
		definition.SecondaryEntityProperties = append(definition.SecondaryEntityProperties, apiProperty(c))
		definition.IsIdentifying = definition.IsIdentifying && c.IsPartOfPrimaryKey
		definition.IsRequired = definition.IsRequired && !c.IsNullable
	}
	return definition, nil
}
