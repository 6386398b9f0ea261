package model

import (
	"errors"
	"fmt"
)

// ErrDependencyCycle is returned when a namespace dependency would create a cycle.
var ErrDependencyCycle = errors.New("namespace dependency cycle")

// Namespace owns one EntityRepository and the ordered dependency chain used for
// cross-namespace name resolution.
type Namespace struct {
	Entity        *EntityRepository
	NamespaceName string
	IsExtension   bool

	// Dependencies are ordered closest dependency first.
	Dependencies []*Namespace

	ProjectExtension   string
	ProjectName        string
	ProjectVersion     string
	ProjectDescription string

	Data map[string]any

	frozen bool
}

// NewNamespace returns an empty namespace named name.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		Entity:        NewEntityRepository(),
		NamespaceName: name,
		Dependencies:  []*Namespace{},
		Data:          make(map[string]any),
	}
}

// IsSentinel reports whether ns is NoNamespace.
func (ns *Namespace) IsSentinel() bool { return ns.frozen }

// AddEntity assigns the element to this namespace and stores it in the repository.
// Properties already attached to a TopLevelEntity follow it into the namespace.
func (ns *Namespace) AddEntity(entity ModelElement) {
	if ns.frozen {
		panic("model: cannot mutate sentinel namespace")
	}
	entity.Base().mustBeMutable()
	entity.Base().Namespace = ns
	if tle, ok := AsTopLevelEntity(entity); ok {
		for _, p := range tle.Properties {
			p.Namespace = ns
		}
	}
	ns.Entity.Add(entity)
}

// AddDependency appends dep to the dependency chain. It rejects self and
// cyclic dependencies.
func (ns *Namespace) AddDependency(dep *Namespace) error {
	if ns.frozen {
		panic("model: cannot mutate sentinel namespace")
	}
	if dep == ns {
		return fmt.Errorf("%w: %s depends on itself", ErrDependencyCycle, ns.NamespaceName)
	}
	if dep.dependsOn(ns, map[*Namespace]bool{}) {
		return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, ns.NamespaceName, dep.NamespaceName)
	}
	for _, existing := range ns.Dependencies {
		if existing == dep {
			return nil
		}
	}
	ns.Dependencies = append(ns.Dependencies, dep)
	return nil
}

func (ns *Namespace) dependsOn(target *Namespace, seen map[*Namespace]bool) bool {
	if seen[ns] {
		return false
	}
	seen[ns] = true
	for _, d := range ns.Dependencies {
		if d == target || d.dependsOn(target, seen) {
			return true
		}
	}
	return false
}

// Chain returns [ns, ...ns.Dependencies], the name-resolution search order.
func (ns *Namespace) Chain() []*Namespace {
	chain := make([]*Namespace, 0, len(ns.Dependencies)+1)
	chain = append(chain, ns)
	return append(chain, ns.Dependencies...)
}

// CoreNamespace returns the first non-extension namespace in the chain.
func (ns *Namespace) CoreNamespace() (*Namespace, bool) {
	for _, candidate := range ns.Chain() {
		if !candidate.IsExtension {
			return candidate, true
		}
	}
	return nil, false
}
