// Package unified links the model built from source: it resolves base entities,
// reference properties, merge directives and domain members, and validates that
// every name it needs can be found.
package unified

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
)

// PluginName is the registration name of the unified plugin.
const PluginName = "edfi-unified"

// Plugin returns the unified plugin. Its enhancers must run before any plugin
// that derives artifacts from references.
func Plugin() enhancer.Plugin {
	return enhancer.Plugin{
		Name:                           PluginName,
		DefaultTargetTechnologyVersion: "7.1.0",
		Validators: []enhancer.Validator{
			ReferencedNamespaceMustBeDependency,
			ReferencedEntityMustExist,
			BaseEntityMustExist,
		},
		Enhancers: Enhancers(),
	}
}

// Enhancers returns the unified enhancers in run order.
func Enhancers() []enhancer.Enhancer {
	enhancers := []enhancer.Enhancer{
		DomainEntitySubclassBaseClassEnhancer,
		AssociationSubclassBaseClassEnhancer,
		CommonSubclassBaseClassEnhancer,
		DomainEntityExtensionBaseClassEnhancer,
		AssociationExtensionBaseClassEnhancer,
		CommonExtensionBaseClassEnhancer,
		InterchangeExtensionBaseClassEnhancer,
	}
	enhancers = append(enhancers, ReferenceEnhancers()...)
	return append(enhancers,
		MergeDirectiveEnhancer,
		OutReferencePathEnhancer,
		DomainItemEnhancer,
		SubdomainParentEnhancer,
		InterchangeItemEnhancer,
	)
}
