// Package diminisher holds version gated patches that bend the derived tables
// back to the shape a historical data standard release shipped with.
package diminisher

import (
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

// PluginName is the registration name of the diminisher plugin.
const PluginName = "edfi-ods-diminisher"

// Plugin returns the diminisher plugin. Its enhancers must run in list order:
// later patches assume the renames of earlier ones.
func Plugin() enhancer.Plugin {
	return enhancer.Plugin{
		Name:                           PluginName,
		DefaultTargetTechnologyVersion: "7.1.0",
		Dependencies:                   []string{relational.PluginName},
		Enhancers: []enhancer.Enhancer{
			ModifyCascadingDeletesDefinitionsDiminisher,
			ModifyCascadingUpdatesDefinitionsDiminisher,
			RenameGradingPeriodForeignKeyColumnsDiminisher,
			ModifyOrderOfGradingPeriodForeignKeyDiminisher,
			RemoveStudentCohortYearColumnDiminisher,
			ModifyColumnDataTypesDiminisher,
			ModifyDescriptorIdentityDiminisher,
		},
	}
}
