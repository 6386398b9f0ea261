package model

// MetaEdEnvironment is the root object of one compilation run. It is built once,
// populated by the builder, mutated in place by every enhancer and discarded
// after artifact generation.
type MetaEdEnvironment struct {
	Namespace map[string]*Namespace
	Plugin    map[string]*PluginEnvironment

	DataStandardVersion string
	PropertyIndex       *PropertyIndex
	ValidationFailures  []ValidationFailure

	namespaceOrder []string
}

// PluginEnvironment is one plugin's slice of the environment.
type PluginEnvironment struct {
	PluginName              string
	TargetTechnologyVersion string
	Data                    map[string]any
}

// NewMetaEdEnvironment returns an empty environment.
func NewMetaEdEnvironment() *MetaEdEnvironment {
	return &MetaEdEnvironment{
		Namespace:          make(map[string]*Namespace),
		Plugin:             make(map[string]*PluginEnvironment),
		PropertyIndex:      NewPropertyIndex(),
		ValidationFailures: []ValidationFailure{},
	}
}

// AddNamespace registers ns under its name, replacing any earlier namespace of that name.
func (m *MetaEdEnvironment) AddNamespace(ns *Namespace) {
	if _, exists := m.Namespace[ns.NamespaceName]; !exists {
		m.namespaceOrder = append(m.namespaceOrder, ns.NamespaceName)
	}
	m.Namespace[ns.NamespaceName] = ns
}

// Namespaces returns every namespace in registration order.
func (m *MetaEdEnvironment) Namespaces() []*Namespace {
	result := make([]*Namespace, 0, len(m.namespaceOrder))
	for _, name := range m.namespaceOrder {
		result = append(result, m.Namespace[name])
	}
	return result
}

// AddPlugin registers a plugin environment, returning the stored value.
func (m *MetaEdEnvironment) AddPlugin(name, targetTechnologyVersion string) *PluginEnvironment {
	p := &PluginEnvironment{
		PluginName:              name,
		TargetTechnologyVersion: targetTechnologyVersion,
		Data:                    make(map[string]any),
	}
	m.Plugin[name] = p
	return p
}

// TargetTechnologyVersion returns the configured version of a plugin, or "" if
// the plugin is not registered.
func (m *MetaEdEnvironment) TargetTechnologyVersion(pluginName string) string {
	if p, ok := m.Plugin[pluginName]; ok {
		return p.TargetTechnologyVersion
	}
	return ""
}

// AddValidationFailure appends a diagnostic to the run.
func (m *MetaEdEnvironment) AddValidationFailure(f ValidationFailure) {
	m.ValidationFailures = append(m.ValidationFailures, f)
}

// HasErrors reports whether any validation failure has the error category.
func (m *MetaEdEnvironment) HasErrors() bool {
	for _, f := range m.ValidationFailures {
		if f.Category == CategoryError {
			return true
		}
	}
	return false
}

// PropertyIndex is a flat, cross-namespace list of properties per kind, in build order.
type PropertyIndex struct {
	byType map[PropertyType][]*EntityProperty
}

// NewPropertyIndex returns an empty index.
func NewPropertyIndex() *PropertyIndex {
	return &PropertyIndex{byType: make(map[PropertyType][]*EntityProperty)}
}

// Add appends p to the list for its kind.
func (i *PropertyIndex) Add(p *EntityProperty) {
	i.byType[p.Type] = append(i.byType[p.Type], p)
}

// OfType returns the properties of kind t.
func (i *PropertyIndex) OfType(t PropertyType) []*EntityProperty {
	return i.byType[t]
}

// Len returns the total number of indexed properties.
func (i *PropertyIndex) Len() int {
	n := 0
	for _, ps := range i.byType {
		n += len(ps)
	}
	return n
}
