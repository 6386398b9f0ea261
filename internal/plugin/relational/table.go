// Package relational derives relational table definitions from the enhanced
// model: one main table per identity-bearing entity, child tables for
// collections and commons, and the foreign keys between them.
package relational

import (
	"github.com/metaed-lang/metaed/internal/core/model"
)

// DataType is the logical type of a column. Physical types are chosen by the
// DDL generators downstream.
type DataType string

const (
	DataTypeBoolean  DataType = "boolean"
	DataTypeCurrency DataType = "currency"
	DataTypeDate     DataType = "date"
	DataTypeDatetime DataType = "datetime"
	DataTypeDecimal  DataType = "decimal"
	DataTypeDuration DataType = "duration"
	DataTypeInteger  DataType = "integer"
	DataTypePercent  DataType = "percent"
	DataTypeShort    DataType = "short"
	DataTypeString   DataType = "string"
	DataTypeTime     DataType = "time"
	DataTypeYear     DataType = "year"
)

// Column is one column of a Table.
type Column struct {
	Name        string   `json:"name"`
	DataType    DataType `json:"dataType"`
	Length      string   `json:"length,omitempty"`
	Precision   string   `json:"precision,omitempty"`
	Scale       string   `json:"scale,omitempty"`
	Description string   `json:"description,omitempty"`

	IsNullable             bool `json:"isNullable"`
	IsPartOfPrimaryKey     bool `json:"isPartOfPrimaryKey"`
	IsIdentityDatabaseType bool `json:"isIdentityDatabaseType,omitempty"`

	// SourceProperty is the property the column was derived from, nil for synthetic columns.
	SourceProperty *model.EntityProperty `json:"-"`
}

// Copy returns a shallow copy of c.
func (c *Column) Copy() *Column {
	clone := *c
	return &clone
}

// ColumnNamePair is one positional column correspondence of a foreign key.
// Both sides always change together.
type ColumnNamePair struct {
	ParentTableColumnName  string `json:"parentTableColumnName"`
	ForeignTableColumnName string `json:"foreignTableColumnName"`
}

// SourceReference copies the cardinality hints of the property a foreign key came from.
type SourceReference struct {
	PropertyType            model.PropertyType `json:"propertyType,omitempty"`
	IsPartOfIdentity        bool               `json:"isPartOfIdentity"`
	IsRequired              bool               `json:"isRequired"`
	IsOptional              bool               `json:"isOptional"`
	IsRequiredCollection    bool               `json:"isRequiredCollection"`
	IsOptionalCollection    bool               `json:"isOptionalCollection"`
	IsSubclassRelationship  bool               `json:"isSubclassRelationship"`
	IsExtensionRelationship bool               `json:"isExtensionRelationship"`
	IsSyntheticRelationship bool               `json:"isSyntheticRelationship"`
}

// IsCommonSourced reports whether the reference came from a common or inline common property.
func (s SourceReference) IsCommonSourced() bool {
	return s.PropertyType == model.PropertyTypeCommon || s.PropertyType == model.PropertyTypeInlineCommon
}

func sourceReferenceOf(p *model.EntityProperty) SourceReference {
	return SourceReference{
		PropertyType:         p.Type,
		IsPartOfIdentity:     p.IsPartOfIdentity,
		IsRequired:           p.IsRequired,
		IsOptional:           p.IsOptional,
		IsRequiredCollection: p.IsRequiredCollection,
		IsOptionalCollection: p.IsOptionalCollection,
	}
}

// ForeignKey links columns of a parent (referencing) table to a foreign (referenced) table.
type ForeignKey struct {
	Name string `json:"name"`

	ParentTable        *Table `json:"-"`
	ForeignTableSchema string `json:"foreignTableSchema"`
	ForeignTableName   string `json:"foreignTableName"`

	ColumnPairs []ColumnNamePair `json:"columnNames"`

	WithDeleteCascade          bool `json:"withDeleteCascade"`
	WithUpdateCascade          bool `json:"withUpdateCascade"`
	WithReverseForeignKeyIndex bool `json:"withReverseForeignKeyIndex"`

	SourceReference SourceReference `json:"sourceReference"`
}

// ParentTableColumnNames returns the referencing side in pair order.
func (fk *ForeignKey) ParentTableColumnNames() []string {
	names := make([]string, len(fk.ColumnPairs))
	for i, pair := range fk.ColumnPairs {
		names[i] = pair.ParentTableColumnName
	}
	return names
}

// ForeignTableColumnNames returns the referenced side in pair order.
func (fk *ForeignKey) ForeignTableColumnNames() []string {
	names := make([]string, len(fk.ColumnPairs))
	for i, pair := range fk.ColumnPairs {
		names[i] = pair.ForeignTableColumnName
	}
	return names
}

// Table is a relational table derived from an entity.
type Table struct {
	Schema      string `json:"schema"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Columns        []*Column     `json:"columns"`
	ForeignKeys    []*ForeignKey `json:"foreignKeys"`
	PrimaryKeyName string        `json:"primaryKeyName"`

	IsAbstract                bool `json:"isAbstract,omitempty"`
	IsExtensionTable          bool `json:"isExtensionTable,omitempty"`
	IsTypeTable               bool `json:"isTypeTable,omitempty"`
	IsRequiredCollectionTable bool `json:"isRequiredCollectionTable,omitempty"`

	// ParentEntity is the entity the table was derived from.
	ParentEntity *model.TopLevelEntity `json:"-"`
	// ParentTable is set on child tables; SourceProperty is the property that created them.
	ParentTable    *Table                `json:"-"`
	SourceProperty *model.EntityProperty `json:"-"`
}

// NewTable returns an empty table.
func NewTable(schema, name string) *Table {
	return &Table{
		Schema:      schema,
		Name:        name,
		Columns:     []*Column{},
		ForeignKeys: []*ForeignKey{},
	}
}

// QualifiedName returns "schema.name".
func (t *Table) QualifiedName() string {
	return t.Schema + "." + t.Name
}

// ParentTableName returns the name of the owning table of a child table, or "".
func (t *Table) ParentTableName() string {
	if t.ParentTable == nil {
		return ""
	}
	return t.ParentTable.Name
}

// Column returns the column named name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// AddColumn appends c. A column with the same name as an existing one is
// unified into it: it stays in the primary key if either was, and stays
// nullable only if both were.
func (t *Table) AddColumn(c *Column) *Column {
	if existing, ok := t.Column(c.Name); ok {
		existing.IsPartOfPrimaryKey = existing.IsPartOfPrimaryKey || c.IsPartOfPrimaryKey
		existing.IsNullable = existing.IsNullable && c.IsNullable && !existing.IsPartOfPrimaryKey
		return existing
	}
	t.Columns = append(t.Columns, c)
	return c
}

// PrimaryKeys returns the primary key columns in column order.
func (t *Table) PrimaryKeys() []*Column {
	var keys []*Column
	for _, c := range t.Columns {
		if c.IsPartOfPrimaryKey {
			keys = append(keys, c)
		}
	}
	return keys
}

// AddForeignKey appends fk and makes t its parent table.
func (t *Table) AddForeignKey(fk *ForeignKey) {
	fk.ParentTable = t
	t.ForeignKeys = append(t.ForeignKeys, fk)
}

// ForeignKeysTo returns the foreign keys referencing the named table.
func (t *Table) ForeignKeysTo(foreignTableName string) []*ForeignKey {
	var result []*ForeignKey
	for _, fk := range t.ForeignKeys {
		if fk.ForeignTableName == foreignTableName {
			result = append(result, fk)
		}
	}
	return result
}
