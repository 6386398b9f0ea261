package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/metaed-lang/metaed/internal/cli/ui"
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/core/pipeline"
	"github.com/metaed-lang/metaed/internal/plugin/relational"
)

type buildOptions struct {
	*rootOptions
	json    bool
	verbose bool
}

// BuildReport is the --json output of the build command.
type BuildReport struct {
	RunID               string                    `json:"runId,omitempty"`
	Success             bool                      `json:"success"`
	DataStandardVersion string                    `json:"dataStandardVersion"`
	DurationMs          int64                     `json:"durationMs"`
	Namespaces          []NamespaceReport         `json:"namespaces"`
	Plugins             []enhancer.PluginResult   `json:"plugins"`
	Skipped             []string                  `json:"skipped,omitempty"`
	ValidationFailures  []model.ValidationFailure `json:"validationFailures"`
	Error               string                    `json:"error,omitempty"`
}

// NamespaceReport summarizes one compiled namespace.
type NamespaceReport struct {
	Name           string `json:"name"`
	ProjectName    string `json:"projectName"`
	ProjectVersion string `json:"projectVersion,omitempty"`
	IsExtension    bool   `json:"isExtension"`
	Entities       int    `json:"entities"`
	Tables         int    `json:"tables"`
}

// NewBuildCommand creates the build command
func NewBuildCommand(root *rootOptions) *cobra.Command {
	opts := &buildOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the configured projects",
		Long: `Load every project listed in metaed.yml and run the plugin pipeline.

The build fails (non-zero exit) when:
  • the model cannot be loaded
  • an enhancer reports an internal error
  • a plugin stops on a missing prerequisite, or is skipped because a
    plugin it depends on stopped
  • any validation failure of category error was recorded`,
		Example: `  # Build with default settings
  metaed build

  # Show each enhancer as it runs
  metaed build --verbose

  # Report the outcome as JSON (useful for tooling)
  metaed build --json

  # Build with another config file
  metaed build -c ds5/metaed.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output the build report in JSON format")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show detailed build output")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	s, err := openSession(cmd, opts.rootOptions, opts.verbose, !opts.json)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	var state *pipeline.State
	compile := func() error {
		state, err = s.compile(cmd.Context())
		return err
	}
	if opts.json || opts.verbose {
		err = compile()
	} else {
		err = ui.WithSpinner(cmd.ErrOrStderr(), "Compiling "+projectList(s), opts.noColor, compile)
	}

	report := newBuildReport(s.cfg.DataStandardVersion, state, err)

	if opts.json {
		data, encErr := json.MarshalIndent(report, "", "  ")
		if encErr != nil {
			return fmt.Errorf("failed to encode report: %w", encErr)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		if !report.Success {
			return errReported
		}
		return nil
	}

	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.BuildError(err.Error(), "", opts.noColor))
		return errReported
	}
	renderBuild(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, opts)
	if !report.Success {
		return errReported
	}
	return nil
}

func projectList(s *session) string {
	names := make([]string, 0, len(s.cfg.Projects))
	for _, p := range s.cfg.Projects {
		names = append(names, p.Namespace)
	}
	return strings.Join(names, ", ")
}

func newBuildReport(dataStandardVersion string, state *pipeline.State, runErr error) *BuildReport {
	report := &BuildReport{
		DataStandardVersion: dataStandardVersion,
		Namespaces:          []NamespaceReport{},
		Plugins:             []enhancer.PluginResult{},
		ValidationFailures:  []model.ValidationFailure{},
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	if state == nil {
		return report
	}

	report.RunID = state.RunID
	report.DurationMs = state.Duration.Milliseconds()
	report.Skipped = state.Skipped
	if state.PluginResults != nil {
		report.Plugins = state.PluginResults
	}
	if metaEd := state.MetaEd; metaEd != nil {
		report.ValidationFailures = metaEd.ValidationFailures
		for _, ns := range metaEd.Namespaces() {
			tables, _ := relational.LookupTables(ns)
			report.Namespaces = append(report.Namespaces, NamespaceReport{
				Name:           ns.NamespaceName,
				ProjectName:    ns.ProjectName,
				ProjectVersion: ns.ProjectVersion,
				IsExtension:    ns.IsExtension,
				Entities:       len(ns.Entity.TopLevelEntities(model.TopLevelEntityModelTypes...)),
				Tables:         tables.Len(),
			})
		}
	}
	report.Success = runErr == nil && !state.Failed() && countErrors(report.ValidationFailures) == 0
	return report
}

func renderBuild(out, errOut io.Writer, report *BuildReport, opts *buildOptions) {
	if opts.verbose {
		ui.Header(out, "Plugins", opts.noColor)
		table := ui.NewTable(out, []string{"Plugin", "Enhancer", "Result"}, &ui.TableOptions{NoColor: opts.noColor})
		for _, plugin := range report.Plugins {
			for _, r := range plugin.Results {
				result := "ok"
				if !r.Success {
					result = "stopped: " + r.Message
				}
				table.AddRow(plugin.PluginName, r.EnhancerName, result)
			}
		}
		for _, name := range report.Skipped {
			table.AddRow(name, "", "skipped")
		}
		table.Render()
		fmt.Fprintln(out)
	}

	table := ui.NewTable(out, []string{"Namespace", "Project", "Version", "Entities", "Tables"}, &ui.TableOptions{NoColor: opts.noColor})
	for _, ns := range report.Namespaces {
		table.AddRow(ns.Name, ns.ProjectName, ns.ProjectVersion, strconv.Itoa(ns.Entities), strconv.Itoa(ns.Tables))
	}
	table.Render()
	fmt.Fprintln(out)

	if len(report.ValidationFailures) > 0 {
		ui.WriteFailures(errOut, report.ValidationFailures, opts.noColor)
		fmt.Fprintln(errOut)
	}

	duration := time.Duration(report.DurationMs) * time.Millisecond
	if report.Success {
		ui.WriteSuccess(out, fmt.Sprintf("Build completed in %v (data standard %s)", duration, report.DataStandardVersion), opts.noColor)
		return
	}

	var problems []string
	for _, plugin := range report.Plugins {
		if plugin.Failure != nil {
			problems = append(problems, fmt.Sprintf("%s stopped at %s: %s",
				plugin.PluginName, plugin.Failure.EnhancerName, plugin.Failure.Message))
		}
	}
	if len(report.Skipped) > 0 {
		problems = append(problems, "skipped: "+strings.Join(report.Skipped, ", "))
	}
	if n := countErrors(report.ValidationFailures); n > 0 {
		problems = append(problems, fmt.Sprintf("%d validation error(s)", n))
	}
	fmt.Fprint(errOut, ui.BuildError(strings.Join(problems, "; "), "", opts.noColor))
}

func countErrors(failures []model.ValidationFailure) int {
	n := 0
	for _, f := range failures {
		if f.Category == model.CategoryError {
			n++
		}
	}
	return n
}
