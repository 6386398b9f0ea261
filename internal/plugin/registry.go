// Package plugin lists the plugins a standard run executes.
package plugin

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/plugin/diminisher"
	"github.com/metaed-lang/metaed/internal/plugin/odsapi"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
	"github.com/metaed-lang/metaed/internal/plugin/unified"
)

// Default returns the standard plugins in run order. Diminishers patch the
// tables before the API metadata is derived from them.
func Default() []enhancer.Plugin {
	return []enhancer.Plugin{
		unified.Plugin(),
		relational.Plugin(),
		diminisher.Plugin(),
		odsapi.Plugin(),
	}
}

// Names returns the names of the standard plugins in run order.
func Names() []string {
	plugins := Default()
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name
	}
	return names
}
