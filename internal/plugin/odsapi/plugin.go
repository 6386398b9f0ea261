package odsapi

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/version"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// PluginName is the registration name of the ODS API plugin.
const PluginName = "edfi-odsapi"

// Technology ranges of the plugin's enhancer variants.
const (
	TargetVersions    = version.V3OrGreater
	LegacyVersions    = "<6.1.0"
	V6dot1OrGreater   = ">=6.1.0"
	defaultTechnology = "7.1.0"
)

// Plugin returns the ODS API plugin.
func Plugin() enhancer.Plugin {
	return enhancer.Plugin{
		Name:                           PluginName,
		DefaultTargetTechnologyVersion: defaultTechnology,
		Dependencies:                   []string{relational.PluginName},
		Enhancers: []enhancer.Enhancer{
			AggregateEnhancer,
			EntityDefinitionEnhancer,
			AssociationDefinitionEnhancer,
			AssociationDefinitionCardinalityEnhancer,
			AssociationDefinitionCardinalityEnhancerV6dot1,
			DomainModelDefinitionEnhancer,
		},
	}
}
