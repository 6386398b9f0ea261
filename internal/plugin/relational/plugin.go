package relational

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/plugin/unified"
)

// PluginName is the registration name of the relational plugin.
const PluginName = "edfi-ods-relational"

// TargetVersions is the technology range the table enhancers apply to.
const TargetVersions = ">=3.0.0"

// Plugin returns the relational plugin.
func Plugin() enhancer.Plugin {
	return enhancer.Plugin{
		Name:                           PluginName,
		DefaultTargetTechnologyVersion: "7.1.0",
		Dependencies:                   []string{unified.PluginName},
		Enhancers: []enhancer.Enhancer{
			DescriptorBaseTableEnhancer,
			MainTableEnhancer,
			ColumnEnhancer,
			ForeignKeyNameEnhancer,
		},
	}
}
