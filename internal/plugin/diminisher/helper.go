package diminisher

import (
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// The helpers below patch already built tables in place. Every one of them
// accepts a nil table and leaves the table untouched when the named column or
// foreign key is missing.

// CoreNamespaceName is the namespace the legacy patches apply to.
const CoreNamespaceName = "EdFi"

// coreTable returns the named table of the core namespace, or nil.
func coreTable(metaEd *model.MetaEdEnvironment, name string) *relational.Table {
	ns, ok := metaEd.Namespace[CoreNamespaceName]
	if !ok {
		return nil
	}
	tables, _ := relational.LookupTables(ns)
	t, ok := tables.Get(name)
	if !ok {
		return nil
	}
	return t
}

// RenameColumn renames a column.
func RenameColumn(t *relational.Table, oldName, newName string) {
	if t == nil {
		return
	}
	if c, ok := t.Column(oldName); ok {
		c.Name = newName
	}
}

// RemoveColumn drops a column.
func RemoveColumn(t *relational.Table, name string) {
	if t == nil {
		return
	}
	kept := t.Columns[:0]
	for _, c := range t.Columns {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	t.Columns = kept
}

// RemoveForeignKey drops every foreign key to foreignTableName.
func RemoveForeignKey(t *relational.Table, foreignTableName string) {
	if t == nil {
		return
	}
	kept := t.ForeignKeys[:0]
	for _, fk := range t.ForeignKeys {
		if fk.ForeignTableName != foreignTableName {
			kept = append(kept, fk)
		}
	}
	t.ForeignKeys = kept
}

// singleForeignKeyTo returns the foreign key to foreignTableName when exactly
// one exists.
func singleForeignKeyTo(t *relational.Table, foreignTableName string) *relational.ForeignKey {
	if t == nil {
		return nil
	}
	fks := t.ForeignKeysTo(foreignTableName)
	if len(fks) != 1 {
		return nil
	}
	return fks[0]
}

// RenameForeignKeyColumn renames both sides of one column pair of the foreign
// key to foreignTableName. The pair must match on both sides.
func RenameForeignKeyColumn(t *relational.Table, foreignTableName, foreignColumn, newForeignColumn, parentColumn, newParentColumn string) {
	fk := singleForeignKeyTo(t, foreignTableName)
	if fk == nil {
		return
	}
	for i, pair := range fk.ColumnPairs {
		if pair.ParentTableColumnName == parentColumn && pair.ForeignTableColumnName == foreignColumn {
			fk.ColumnPairs[i] = relational.ColumnNamePair{
				ParentTableColumnName:  newParentColumn,
				ForeignTableColumnName: newForeignColumn,
			}
			return
		}
	}
}

// ReorderForeignKeyColumns puts the column pairs of the foreign key to
// foreignTableName in the order of parentColumnOrder. Pairs move as a unit.
// parentColumnOrder must name exactly the key's parent columns.
func ReorderForeignKeyColumns(t *relational.Table, foreignTableName string, parentColumnOrder []string) {
	fk := singleForeignKeyTo(t, foreignTableName)
	if fk == nil || len(fk.ColumnPairs) != len(parentColumnOrder) {
		return
	}
	byParent := make(map[string]relational.ColumnNamePair, len(fk.ColumnPairs))
	for _, pair := range fk.ColumnPairs {
		byParent[pair.ParentTableColumnName] = pair
	}
	reordered := make([]relational.ColumnNamePair, 0, len(parentColumnOrder))
	for _, name := range parentColumnOrder {
		pair, ok := byParent[name]
		if !ok {
			return
		}
		reordered = append(reordered, pair)
	}
	fk.ColumnPairs = reordered
}

// SetColumnDataType changes a column's type and facets.
func SetColumnDataType(t *relational.Table, name string, dataType relational.DataType, length, precision, scale string) {
	if t == nil {
		return
	}
	c, ok := t.Column(name)
	if !ok {
		return
	}
	c.DataType = dataType
	c.Length = length
	c.Precision = precision
	c.Scale = scale
}

// Cascade selects the referential action ModifyCascade changes.
type Cascade int

const (
	CascadeDelete Cascade = iota
	CascadeUpdate
)

// ModifyCascade turns a cascade on or off on the foreign key to foreignTableName.
func ModifyCascade(t *relational.Table, foreignTableName string, cascade Cascade, enabled bool) {
	fk := singleForeignKeyTo(t, foreignTableName)
	if fk == nil {
		return
	}
	switch cascade {
	case CascadeDelete:
		fk.WithDeleteCascade = enabled
	case CascadeUpdate:
		fk.WithUpdateCascade = enabled
	}
}
