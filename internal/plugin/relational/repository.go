package relational

import (
	"fmt"
	"strings"
	"sync"

	"github.com/metaed-lang/metaed/internal/core/model"
)

// TableRepository holds one namespace's tables in creation order.
type TableRepository struct {
	tables map[string]*Table
	order  []string
	mu     sync.RWMutex
}

// NewTableRepository creates an empty repository.
func NewTableRepository() *TableRepository {
	return &TableRepository{tables: make(map[string]*Table)}
}

// Register adds a table. Table names are unique per repository.
func (r *TableRepository) Register(table *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[table.Name]; exists {
		return fmt.Errorf("table %s is already registered", table.QualifiedName())
	}
	r.tables[table.Name] = table
	r.order = append(r.order, table.Name)
	return nil
}

// Get retrieves a table by name.
func (r *TableRepository) Get(name string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, exists := r.tables[name]
	return table, exists
}

// All returns the tables in creation order.
func (r *TableRepository) All() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Table, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tables[name])
	}
	return result
}

// Remove deletes the named table. It reports whether the table existed.
func (r *TableRepository) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[name]; !exists {
		return false
	}
	delete(r.tables, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of tables.
func (r *TableRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// TablesFor returns the table repository of ns, creating it on first use.
func TablesFor(ns *model.Namespace) *TableRepository {
	if repo, ok := ns.Data[PluginName].(*TableRepository); ok {
		return repo
	}
	repo := NewTableRepository()
	ns.Data[PluginName] = repo
	return repo
}

// LookupTables returns the table repository of ns without creating one. When
// no tables were built for ns it returns an empty repository and false, and
// ns is left untouched, so it is safe for concurrent readers.
func LookupTables(ns *model.Namespace) (*TableRepository, bool) {
	if repo, ok := ns.Data[PluginName].(*TableRepository); ok {
		return repo, true
	}
	return NewTableRepository(), false
}

// AllTables returns every table of every namespace in namespace order.
func AllTables(metaEd *model.MetaEdEnvironment) []*Table {
	var result []*Table
	for _, ns := range metaEd.Namespaces() {
		if repo, ok := LookupTables(ns); ok {
			result = append(result, repo.All()...)
		}
	}
	return result
}

// FindTable looks a table up by schema and name across namespaces.
func FindTable(metaEd *model.MetaEdEnvironment, schema, name string) (*Table, bool) {
	for _, ns := range metaEd.Namespaces() {
		if SchemaName(ns) != schema {
			continue
		}
		repo, _ := LookupTables(ns)
		return repo.Get(name)
	}
	return nil, false
}

// SchemaName is the database schema of a namespace.
func SchemaName(ns *model.Namespace) string {
	return strings.ToLower(ns.NamespaceName)
}

// EntityTables records the tables derived from one entity.
type EntityTables struct {
	MainTable *Table
	// Tables holds the main table followed by its child tables.
	Tables []*Table

	columnsBuilt bool
}

// TablesOf returns the table data of entity, creating it on first use.
func TablesOf(entity *model.TopLevelEntity) *EntityTables {
	if data, ok := entity.Data[PluginName].(*EntityTables); ok {
		return data
	}
	data := &EntityTables{}
	entity.Data[PluginName] = data
	return data
}
