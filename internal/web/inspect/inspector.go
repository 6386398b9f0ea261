// Package inspect serves a read-only JSON view of the last compilation:
// namespaces, their tables, and the API metadata derived from them.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/metaed-lang/metaed/internal/cli/ui"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/core/pipeline"
	"github.com/metaed-lang/metaed/internal/plugin/odsapi"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
	"github.com/metaed-lang/metaed/internal/web/middleware"
	"github.com/metaed-lang/metaed/internal/web/response"
)

// BuildFunc produces a fresh compilation.
type BuildFunc func(ctx context.Context) (*pipeline.State, error)

// Inspector holds the state being served. A rebuild replaces it atomically.
type Inspector struct {
	mu     sync.RWMutex
	state  *pipeline.State
	build  BuildFunc
	logger *zap.Logger
}

// New returns an inspector serving state. build may be nil, which disables
// POST /rebuild.
func New(state *pipeline.State, build BuildFunc, logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{state: state, build: build, logger: logger}
}

// State returns the state currently served.
func (i *Inspector) State() *pipeline.State {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.state
}

// Rebuild runs build and swaps in the new state. The old state keeps being
// served when the build errors.
func (i *Inspector) Rebuild(ctx context.Context) (*pipeline.State, error) {
	if i.build == nil {
		return nil, errors.New("rebuild is not configured")
	}
	state, err := i.build(ctx)
	if err != nil {
		return nil, err
	}
	i.mu.Lock()
	i.state = state
	i.mu.Unlock()
	i.logger.Info("state replaced", zap.String("run_id", state.RunID))
	return state, nil
}

// Handler returns the router with the standard middleware applied.
func (i *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	for _, m := range middleware.NewChain(
		middleware.RequestID(),
		middleware.Recovery(i.logger),
		middleware.Logging(i.logger, "/healthz"),
	).Middlewares() {
		r.Use(m)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/run", i.handleRun)
	r.Post("/rebuild", i.handleRebuild)
	r.Get("/failures", i.handleFailures)
	r.Route("/namespaces", func(r chi.Router) {
		r.Get("/", i.handleNamespaces)
		r.Route("/{namespace}", func(r chi.Router) {
			r.Get("/", i.handleNamespace)
			r.Get("/tables", i.handleTables)
			r.Get("/tables/{table}", i.handleTable)
			r.Get("/aggregates", i.handleAggregates)
			r.Get("/associations", i.handleAssociations)
			r.Get("/domain-model", i.handleDomainModel)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, fmt.Sprintf("no route for %s", r.URL.Path), "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path), "")
	})
	return r
}

// NamespaceSummary is one entry of GET /namespaces.
type NamespaceSummary struct {
	Name           string   `json:"name"`
	Schema         string   `json:"schema"`
	ProjectName    string   `json:"projectName"`
	ProjectVersion string   `json:"projectVersion"`
	IsExtension    bool     `json:"isExtension"`
	Dependencies   []string `json:"dependencies"`
	EntityCount    int      `json:"entityCount"`
	TableCount     int      `json:"tableCount"`
}

// TableSummary is one entry of GET /namespaces/{namespace}/tables.
type TableSummary struct {
	Schema          string   `json:"schema"`
	Name            string   `json:"name"`
	ColumnCount     int      `json:"columnCount"`
	ForeignKeyCount int      `json:"foreignKeyCount"`
	PrimaryKeyName  string   `json:"primaryKeyName"`
	ParentTable     string   `json:"parentTable,omitempty"`
	DependsOn       []string `json:"dependsOn,omitempty"`
}

func (i *Inspector) environment(w http.ResponseWriter) (*model.MetaEdEnvironment, bool) {
	state := i.State()
	if state == nil || state.MetaEd == nil {
		response.Error(w, http.StatusServiceUnavailable, "no compilation has completed", "")
		return nil, false
	}
	return state.MetaEd, true
}

func (i *Inspector) namespace(w http.ResponseWriter, r *http.Request) (*model.Namespace, bool) {
	_, ns, ok := i.namespaceIn(w, r)
	return ns, ok
}

// namespaceIn resolves {namespace} together with the environment it was found
// in, so a concurrent rebuild cannot mix two compilations.
func (i *Inspector) namespaceIn(w http.ResponseWriter, r *http.Request) (*model.MetaEdEnvironment, *model.Namespace, bool) {
	metaEd, ok := i.environment(w)
	if !ok {
		return nil, nil, false
	}
	name := chi.URLParam(r, "namespace")
	if ns, found := metaEd.Namespace[name]; found {
		return metaEd, ns, true
	}

	names := make([]string, 0, len(metaEd.Namespace))
	for _, ns := range metaEd.Namespaces() {
		names = append(names, ns.NamespaceName)
	}
	response.NotFound(w, fmt.Sprintf("Cannot find namespace '%s'", name), ui.FindSimilar(name, names, nil))
	return nil, nil, false
}

func (i *Inspector) handleRun(w http.ResponseWriter, r *http.Request) {
	state := i.State()
	if state == nil {
		response.Error(w, http.StatusServiceUnavailable, "no compilation has completed", "")
		return
	}
	response.JSON(w, http.StatusOK, runSummary(state))
}

func (i *Inspector) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if i.build == nil {
		response.Error(w, http.StatusMethodNotAllowed, "rebuild is not configured", "")
		return
	}
	state, err := i.Rebuild(r.Context())
	if err != nil {
		i.logger.Error("rebuild failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, err.Error(), "rebuild_failed")
		return
	}
	response.JSON(w, http.StatusOK, runSummary(state))
}

type summary struct {
	*pipeline.State
	Failed             bool `json:"failed"`
	ValidationFailures int  `json:"validationFailures"`
}

func runSummary(state *pipeline.State) summary {
	s := summary{State: state, Failed: state.Failed()}
	if state.MetaEd != nil {
		s.ValidationFailures = len(state.MetaEd.ValidationFailures)
	}
	return s
}

func (i *Inspector) handleFailures(w http.ResponseWriter, r *http.Request) {
	metaEd, ok := i.environment(w)
	if !ok {
		return
	}
	failures := metaEd.ValidationFailures
	if category := r.URL.Query().Get("category"); category != "" {
		filtered := []model.ValidationFailure{}
		for _, f := range failures {
			if string(f.Category) == category {
				filtered = append(filtered, f)
			}
		}
		failures = filtered
	}
	response.JSON(w, http.StatusOK, failures)
}

func (i *Inspector) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	metaEd, ok := i.environment(w)
	if !ok {
		return
	}
	result := []NamespaceSummary{}
	for _, ns := range metaEd.Namespaces() {
		result = append(result, namespaceSummary(ns))
	}
	response.JSON(w, http.StatusOK, result)
}

func (i *Inspector) handleNamespace(w http.ResponseWriter, r *http.Request) {
	if ns, ok := i.namespace(w, r); ok {
		response.JSON(w, http.StatusOK, namespaceSummary(ns))
	}
}

func namespaceSummary(ns *model.Namespace) NamespaceSummary {
	deps := make([]string, 0, len(ns.Dependencies))
	for _, d := range ns.Dependencies {
		deps = append(deps, d.NamespaceName)
	}
	return NamespaceSummary{
		Name:           ns.NamespaceName,
		Schema:         relational.SchemaName(ns),
		ProjectName:    ns.ProjectName,
		ProjectVersion: ns.ProjectVersion,
		IsExtension:    ns.IsExtension,
		Dependencies:   deps,
		EntityCount:    len(ns.Entity.TopLevelEntities(model.TopLevelEntityModelTypes...)),
		TableCount:     tablesOf(ns).Len(),
	}
}

// handleTables lists a namespace's tables in declaration order, or with
// ?order=dependency so that referenced tables come first.
func (i *Inspector) handleTables(w http.ResponseWriter, r *http.Request) {
	metaEd, ns, ok := i.namespaceIn(w, r)
	if !ok {
		return
	}

	// The graph spans every namespace so extension tables list their core dependencies.
	graph := relational.NewTableGraph(relational.AllTables(metaEd))
	tables := tablesOf(ns).All()

	switch order := r.URL.Query().Get("order"); order {
	case "", "declaration":
	case "dependency":
		sorted, err := graph.TopologicalSort()
		if err != nil {
			response.Error(w, http.StatusConflict, err.Error(), "")
			return
		}
		schema := relational.SchemaName(ns)
		tables = tables[:0:0]
		for _, t := range sorted {
			if t.Schema == schema {
				tables = append(tables, t)
			}
		}
	default:
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("unknown order '%s'", order), "")
		return
	}

	result := []TableSummary{}
	for _, t := range tables {
		result = append(result, TableSummary{
			Schema:          t.Schema,
			Name:            t.Name,
			ColumnCount:     len(t.Columns),
			ForeignKeyCount: len(t.ForeignKeys),
			PrimaryKeyName:  t.PrimaryKeyName,
			ParentTable:     t.ParentTableName(),
			DependsOn:       graph.Dependencies(t.QualifiedName()),
		})
	}
	response.JSON(w, http.StatusOK, result)
}

func (i *Inspector) handleTable(w http.ResponseWriter, r *http.Request) {
	ns, ok := i.namespace(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "table")
	repo := tablesOf(ns)
	if t, found := repo.Get(name); found {
		response.JSON(w, http.StatusOK, t)
		return
	}

	var names []string
	for _, t := range repo.All() {
		names = append(names, t.Name)
	}
	response.NotFound(w,
		fmt.Sprintf("Cannot find table '%s' in namespace '%s'", name, ns.NamespaceName),
		ui.FindSimilar(name, names, nil))
}

func (i *Inspector) handleAggregates(w http.ResponseWriter, r *http.Request) {
	if ns, ok := i.namespace(w, r); ok {
		data := apiData(ns)
		response.JSON(w, http.StatusOK, map[string]any{
			"aggregates":          nonNil(data.Aggregates),
			"aggregateExtensions": nonNil(data.AggregateExtensions),
		})
	}
}

func (i *Inspector) handleAssociations(w http.ResponseWriter, r *http.Request) {
	if ns, ok := i.namespace(w, r); ok {
		response.JSON(w, http.StatusOK, nonNil(apiData(ns).AssociationDefinitions))
	}
}

func (i *Inspector) handleDomainModel(w http.ResponseWriter, r *http.Request) {
	ns, ok := i.namespace(w, r)
	if !ok {
		return
	}
	definition := apiData(ns).DomainModelDefinition
	if definition == nil {
		response.Error(w, http.StatusNotFound,
			fmt.Sprintf("no domain model for namespace '%s' at this technology version", ns.NamespaceName), "")
		return
	}
	response.JSON(w, http.StatusOK, definition)
}

// Handlers run concurrently, so they read plugin data through the lookups,
// which never write to the namespace.
func tablesOf(ns *model.Namespace) *relational.TableRepository {
	repo, _ := relational.LookupTables(ns)
	return repo
}

func apiData(ns *model.Namespace) *odsapi.NamespaceData {
	data, _ := odsapi.LookupData(ns)
	return data
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
