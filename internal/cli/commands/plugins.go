package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metaed-lang/metaed/internal/cli/config"
	"github.com/metaed-lang/metaed/internal/cli/ui"
	"github.com/metaed-lang/metaed/internal/plugin"
)

// NewPluginsCommand creates the plugins command
func NewPluginsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins in run order",
		Long:  "List the standard plugins in run order with the target technology version each will use.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]string{}
			if cfg, err := config.Load(root.configPath); err == nil {
				overrides = cfg.Plugins
			}

			t := ui.NewTable(cmd.OutOrStdout(), []string{"Plugin", "Version", "Depends On", "Enhancers"}, &ui.TableOptions{NoColor: root.noColor})
			for _, p := range plugin.Default() {
				v := p.DefaultTargetTechnologyVersion
				if override, ok := overrides[p.Name]; ok && override != "" {
					v = override
				}
				t.AddRow(p.Name, v, strings.Join(p.Dependencies, ", "), strconv.Itoa(len(p.Enhancers)))
			}
			t.Render()
			return nil
		},
	}
}
