// Package odsapi derives the API metadata the ODS API is generated from:
// aggregates, entity definitions, association definitions with their
// cardinality, and one domain model definition per namespace.
package odsapi

import (
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// Cardinality is the multiplicity of an association as the API sees it.
type Cardinality string

const (
	CardinalityUnknown             Cardinality = ""
	CardinalityOneToOne            Cardinality = "OneToOne"
	CardinalityOneToOneInheritance Cardinality = "OneToOneInheritance"
	CardinalityOneToOneExtension   Cardinality = "OneToOneExtension"
	CardinalityOneToZeroOrOne      Cardinality = "OneToZeroOrOne"
	CardinalityOneToOneOrMore      Cardinality = "OneToOneOrMore"
	CardinalityOneToZeroOrMore     Cardinality = "OneToZeroOrMore"
)

// FullName is a schema qualified name.
type FullName struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
}

func (n FullName) String() string { return n.Schema + "." + n.Name }

// EntityTable is one table of an aggregate.
type EntityTable struct {
	Schema               string `json:"schema"`
	Table                string `json:"table"`
	IsRequiredCollection bool   `json:"isRequiredCollection"`
}

// Aggregate groups the tables persisted together under one root table.
type Aggregate struct {
	AggregateName          string        `json:"aggregateName"`
	Schema                 string        `json:"schema"`
	AllowPrimaryKeyUpdates bool          `json:"allowPrimaryKeyUpdates"`
	IsAbstract             bool          `json:"isAbstract"`
	EntityTables           []EntityTable `json:"entityTables"`
}

// Contains reports whether the aggregate holds the named table.
func (a *Aggregate) Contains(schema, table string) bool {
	_, ok := a.EntityTable(schema, table)
	return ok
}

// EntityTable returns the entry for the named table.
func (a *Aggregate) EntityTable(schema, table string) (EntityTable, bool) {
	for _, et := range a.EntityTables {
		if et.Schema == schema && et.Table == table {
			return et, true
		}
	}
	return EntityTable{}, false
}

// AggregateExtension adds extension tables to an aggregate of another schema.
type AggregateExtension struct {
	FullName     FullName      `json:"fullName"`
	EntityTables []EntityTable `json:"entityTables"`
}

// PropertyType describes the stored type of an API property.
type PropertyType struct {
	DbType     string `json:"dbType"`
	MaxLength  string `json:"maxLength,omitempty"`
	Precision  string `json:"precision,omitempty"`
	Scale      string `json:"scale,omitempty"`
	IsNullable bool   `json:"isNullable"`
}

// APIProperty is a column as exposed by the API.
type APIProperty struct {
	PropertyName     string       `json:"propertyName"`
	PropertyType     PropertyType `json:"propertyType"`
	Description      string       `json:"description,omitempty"`
	IsIdentifying    bool         `json:"isIdentifying"`
	IsServerAssigned bool         `json:"isServerAssigned"`
}

// EntityIdentifier is a key of an entity definition.
type EntityIdentifier struct {
	IdentifierName           string   `json:"identifierName"`
	IdentifyingPropertyNames []string `json:"identifyingPropertyNames"`
	IsPrimary                bool     `json:"isPrimary"`
	IsUpdatable              bool     `json:"isUpdatable"`
}

// EntityDefinition describes one table.
type EntityDefinition struct {
	FullName                 FullName           `json:"fullName"`
	Description              string             `json:"description,omitempty"`
	IsAbstract               bool               `json:"isAbstract"`
	LocallyDefinedProperties []APIProperty      `json:"locallyDefinedProperties"`
	Identifiers              []EntityIdentifier `json:"identifiers"`
}

// AssociationDefinition describes one foreign key. The primary entity is the
// referenced table and the secondary entity the referencing one.
type AssociationDefinition struct {
	FullName                  FullName      `json:"fullName"`
	Cardinality               Cardinality   `json:"cardinality"`
	PrimaryEntityFullName     FullName      `json:"primaryEntityFullName"`
	PrimaryEntityProperties   []APIProperty `json:"primaryEntityProperties"`
	SecondaryEntityFullName   FullName      `json:"secondaryEntityFullName"`
	SecondaryEntityProperties []APIProperty `json:"secondaryEntityProperties"`
	IsIdentifying             bool          `json:"isIdentifying"`
	IsRequired                bool          `json:"isRequired"`
	ConstraintName            string        `json:"constraintName"`

	ForeignKey     *relational.ForeignKey `json:"-"`
	PrimaryTable   *relational.Table      `json:"-"`
	SecondaryTable *relational.Table      `json:"-"`
}

// SchemaDefinition names a namespace's schema.
type SchemaDefinition struct {
	LogicalName  string `json:"logicalName"`
	PhysicalName string `json:"physicalName"`
}

// DomainModelDefinition is the API metadata of one namespace.
type DomainModelDefinition struct {
	OdsAPIVersion          string                   `json:"odsApiVersion"`
	SchemaDefinition       SchemaDefinition         `json:"schemaDefinition"`
	Aggregates             []*Aggregate             `json:"aggregateDefinitions"`
	AggregateExtensions    []*AggregateExtension    `json:"aggregateExtensionDefinitions"`
	EntityDefinitions      []*EntityDefinition      `json:"entityDefinitions"`
	AssociationDefinitions []*AssociationDefinition `json:"associationDefinitions"`
}

// NamespaceData is the API metadata kept on a namespace.
type NamespaceData struct {
	Aggregates             []*Aggregate
	AggregateExtensions    []*AggregateExtension
	EntityDefinitions      []*EntityDefinition
	AssociationDefinitions []*AssociationDefinition
	DomainModelDefinition  *DomainModelDefinition
}

// LookupData returns the API metadata of ns without creating it. When none was
// derived for ns it returns empty data and false, leaving ns untouched.
func LookupData(ns *model.Namespace) (*NamespaceData, bool) {
	if data, ok := ns.Data[PluginName].(*NamespaceData); ok {
		return data, true
	}
	return &NamespaceData{}, false
}

// DataFor returns the API metadata of ns, creating it on first use.
func DataFor(ns *model.Namespace) *NamespaceData {
	if data, ok := ns.Data[PluginName].(*NamespaceData); ok {
		return data
	}
	data := &NamespaceData{}
	ns.Data[PluginName] = data
	return data
}
