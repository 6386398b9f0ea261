// Package model defines the semantic model a MetaEd program compiles into:
// namespaces, entity repositories, typed entities, properties and source maps.
//
// Every entity kind is a tagged value: a Type discriminant plus a flat struct.
// Consumers branch on Type or narrow with the As* functions.
package model

import "fmt"

// ModelElement is implemented by every element that can live in an EntityRepository.
type ModelElement interface {
	Base() *ModelBase
}

// ModelBase holds the fields shared by every model element.
type ModelBase struct {
	Type              ModelType
	Documentation     string
	MetaEdName        string
	MetaEdID          string
	IsDeprecated      bool
	DeprecationReason string

	// Namespace is the owning namespace, assigned when the element is built.
	Namespace *Namespace

	// Data is the per-plugin extension bag, keyed by plugin name.
	Data map[string]any
	// Config is the per-plugin configuration bag, keyed by plugin name.
	Config map[string]any

	SourceMap ModelBaseSourceMap

	frozen bool
}

// Base returns the element's ModelBase.
func (m *ModelBase) Base() *ModelBase { return m }

// IsSentinel reports whether the element is one of the immutable No* sentinels.
func (m *ModelBase) IsSentinel() bool { return m.frozen }

// FullName returns "Namespace.Name".
func (m *ModelBase) FullName() string {
	if m.Namespace == nil {
		return m.MetaEdName
	}
	return m.Namespace.NamespaceName + "." + m.MetaEdName
}

func (m *ModelBase) mustBeMutable() {
	if m.frozen {
		panic(fmt.Sprintf("model: cannot mutate sentinel %s", m.Type))
	}
}

func newModelBase(t ModelType) ModelBase {
	return ModelBase{
		Type:      t,
		Namespace: NoNamespace,
		Data:      make(map[string]any),
		Config:    make(map[string]any),
	}
}

// IsNoEntity reports whether m is nil or a sentinel, i.e. not a resolved element.
func IsNoEntity(m ModelElement) bool {
	if m == nil {
		return true
	}
	base := m.Base()
	return base == nil || base.frozen
}
