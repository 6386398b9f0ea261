package odsapi

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

var dbTypes = map[relational.DataType]string{
	relational.DataTypeBoolean:  "Boolean",
	relational.DataTypeCurrency: "Currency",
	relational.DataTypeDate:     "Date",
	relational.DataTypeDatetime: "DateTime2",
	relational.DataTypeDecimal:  "Decimal",
	relational.DataTypeDuration: "String",
	relational.DataTypeInteger:  "Int32",
	relational.DataTypePercent:  "Decimal",
	relational.DataTypeShort:    "Int16",
	relational.DataTypeString:   "String",
	relational.DataTypeTime:     "Time",
	relational.DataTypeYear:     "Int16",
}

// EntityDefinitionEnhancer describes every table of every namespace.
func EntityDefinitionEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "EntityDefinitionEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	for _, ns := range metaEd.Namespaces() {
		data := DataFor(ns)
		data.EntityDefinitions = nil
		tables, _ := relational.LookupTables(ns)
		for _, t := range tables.All() {
			data.EntityDefinitions = append(data.EntityDefinitions, entityDefinition(t))
		}
	}
	return enhancer.Ok(name)
}

func entityDefinition(t *relational.Table) *EntityDefinition {
	definition := &EntityDefinition{
		FullName:                 FullName{Schema: t.Schema, Name: t.Name},
		Description:              t.Description,
		IsAbstract:               t.IsAbstract,
		LocallyDefinedProperties: make([]APIProperty, 0, len(t.Columns)),
	}
	for _, c := range t.Columns {
		definition.LocallyDefinedProperties = append(definition.LocallyDefinedProperties, apiProperty(c))
	}

	var keyNames []string
	for _, c := range t.PrimaryKeys() {
		keyNames = append(keyNames, c.Name)
	}
	if len(keyNames) > 0 {
		definition.Identifiers = []EntityIdentifier{{
			IdentifierName:           t.PrimaryKeyName,
			IdentifyingPropertyNames: keyNames,
			IsPrimary:                true,
			IsUpdatable:              t.ParentEntity != nil && t.ParentEntity.AllowPrimaryKeyUpdates,
		}}
	}
	return definition
}

func apiProperty(c *relational.Column) APIProperty {
	return APIProperty{
		PropertyName: c.Name,
		PropertyType: PropertyType{
			DbType:     dbTypes[c.DataType],
			MaxLength:  c.Length,
			Precision:  c.Precision,
			Scale:      c.Scale,
			IsNullable: c.IsNullable,
		},
		Description:      c.Description,
		IsIdentifying:    c.IsPartOfPrimaryKey,
		IsServerAssigned: c.IsIdentityDatabaseType,
	}
}
