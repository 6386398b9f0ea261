// Package enhancer defines the transformation contracts plugins contribute and
// runs them in their declared order.
package enhancer

import (
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/core/version"
)

// Result reports how one enhancer invocation went. Success false is a
// missing-prerequisite condition that halts the rest of the plugin.
type Result struct {
	EnhancerName string `json:"enhancerName"`
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
}

// Enhancer mutates the environment in place. A returned error is an internal
// consistency bug and stops the whole run.
type Enhancer func(metaEd *model.MetaEdEnvironment) (Result, error)

// Validator inspects the environment and reports failures without mutating the model.
type Validator func(metaEd *model.MetaEdEnvironment) []model.ValidationFailure

// Plugin is one unit of registration: a name, its validators and its ordered enhancers.
type Plugin struct {
	Name string
	// DefaultTargetTechnologyVersion is used when the run does not configure one.
	DefaultTargetTechnologyVersion string
	// Dependencies name plugins that must succeed before this one runs.
	Dependencies []string
	Validators   []Validator
	Enhancers    []Enhancer
}

// Ok returns a successful result for name.
func Ok(name string) (Result, error) {
	return Result{EnhancerName: name, Success: true}, nil
}

// Fail returns a precondition failure for name.
func Fail(name, message string) (Result, error) {
	return Result{EnhancerName: name, Success: false, Message: message}, nil
}

// TechnologyVersionSatisfies reports whether the plugin's configured target
// technology version is inside targetVersions.
func TechnologyVersionSatisfies(metaEd *model.MetaEdEnvironment, pluginName, targetVersions string) bool {
	return version.Satisfies(metaEd.TargetTechnologyVersion(pluginName), targetVersions)
}

// DataStandardVersionSatisfies reports whether the run's data standard version
// is inside targetVersions.
func DataStandardVersionSatisfies(metaEd *model.MetaEdEnvironment, targetVersions string) bool {
	return version.Satisfies(metaEd.DataStandardVersion, targetVersions)
}
