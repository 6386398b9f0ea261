package relational

import (
	"fmt"

	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
)

// ForeignKeyNameEnhancer names primary keys PK_<Table> and foreign keys
// FK_<Parent>_<Foreign>. Foreign key names are unique per schema; a clash gets
// a numeric suffix starting at 1. It also marks foreign keys that need a
// reverse index because their columns are not all primary key columns.
func ForeignKeyNameEnhancer(metaEd *model.MetaEdEnvironment) (enhancer.Result, error) {
	const name = "ForeignKeyNameEnhancer"
	if !enhancer.TechnologyVersionSatisfies(metaEd, PluginName, TargetVersions) {
		return enhancer.Ok(name)
	}

	for _, ns := range metaEd.Namespaces() {
		tables := TablesFor(ns).All()

		used := make(map[string]bool)
		for _, t := range tables {
			for _, fk := range t.ForeignKeys {
				if fk.Name != "" {
					used[fk.Name] = true
				}
			}
		}

		for _, t := range tables {
			if t.PrimaryKeyName == "" {
				t.PrimaryKeyName = "PK_" + t.Name
			}
			for _, fk := range t.ForeignKeys {
				if fk.Name == "" {
					fk.Name = uniqueName(fmt.Sprintf("FK_%s_%s", t.Name, fk.ForeignTableName), used)
				}
				fk.WithReverseForeignKeyIndex = needsReverseIndex(t, fk)
			}
		}
	}
	return enhancer.Ok(name)
}

func uniqueName(base string, used map[string]bool) string {
	candidate := base
	for i := 1; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	used[candidate] = true
	return candidate
}

func needsReverseIndex(t *Table, fk *ForeignKey) bool {
	for _, pair := range fk.ColumnPairs {
		c, ok := t.Column(pair.ParentTableColumnName)
		if !ok || !c.IsPartOfPrimaryKey {
			return true
		}
	}
	return false
}
