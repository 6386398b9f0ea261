// Package pipeline runs one compilation: build the model, then run every
// registered plugin's validators and enhancers in order over the same environment.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/metaed-lang/metaed/internal/core/builder"
	"github.com/metaed-lang/metaed/internal/core/enhancer"
	"github.com/metaed-lang/metaed/internal/core/model"
	"github.com/metaed-lang/metaed/internal/core/version"
)

// Options configures a run.
type Options struct {
	DataStandardVersion string
	Projects            []builder.ProjectSpec
	// TargetTechnologyVersions overrides a plugin's default version, keyed by plugin name.
	TargetTechnologyVersions map[string]string
}

// State is the outcome of a run.
type State struct {
	RunID         string                   `json:"runId"`
	MetaEd        *model.MetaEdEnvironment `json:"-"`
	PluginResults []enhancer.PluginResult  `json:"pluginResults"`
	// Skipped lists plugins not run because a dependency failed.
	Skipped  []string      `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether any plugin stopped on a precondition failure or was skipped.
func (s *State) Failed() bool {
	return len(s.Skipped) > 0 || len(s.PluginFailures()) > 0
}

// PluginFailures returns the unsuccessful result of each failed plugin.
func (s *State) PluginFailures() []enhancer.PluginResult {
	var failed []enhancer.PluginResult
	for _, r := range s.PluginResults {
		if !r.Succeeded() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Pipeline holds the ordered plugin list.
type Pipeline struct {
	logger  *zap.Logger
	plugins []enhancer.Plugin
}

// New returns a pipeline running plugins in the given order.
func New(logger *zap.Logger, plugins ...enhancer.Plugin) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger, plugins: plugins}
}

// Run builds a fresh environment from opts.Projects and enhances it.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*State, error) {
	if !version.IsValid(opts.DataStandardVersion) {
		return nil, fmt.Errorf("invalid data standard version %q", opts.DataStandardVersion)
	}

	metaEd := model.NewMetaEdEnvironment()
	metaEd.DataStandardVersion = opts.DataStandardVersion
	if err := p.Register(metaEd, opts.TargetTechnologyVersions); err != nil {
		return nil, err
	}

	if err := builder.Build(metaEd, opts.Projects); err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}
	return p.Enhance(ctx, metaEd)
}

// Register adds a PluginEnvironment for every plugin, using the override from
// versions when present.
func (p *Pipeline) Register(metaEd *model.MetaEdEnvironment, versions map[string]string) error {
	for _, plugin := range p.plugins {
		v := plugin.DefaultTargetTechnologyVersion
		if override, ok := versions[plugin.Name]; ok && override != "" {
			v = override
		}
		if !version.IsValid(v) {
			return fmt.Errorf("plugin %s: invalid target technology version %q", plugin.Name, v)
		}
		metaEd.AddPlugin(plugin.Name, v)
	}
	return nil
}

// Enhance runs every plugin over an already built environment. A plugin whose
// enhancer reports a precondition failure stops, and plugins depending on it
// are skipped; other plugins still run. An enhancer error stops the run.
func (p *Pipeline) Enhance(ctx context.Context, metaEd *model.MetaEdEnvironment) (*State, error) {
	start := time.Now()
	state := &State{RunID: uuid.NewString(), MetaEd: metaEd}
	logger := p.logger.With(zap.String("run_id", state.RunID))
	runner := enhancer.NewRunner(logger)

	logger.Info("pipeline started",
		zap.String("data_standard_version", metaEd.DataStandardVersion),
		zap.Int("namespaces", len(metaEd.Namespace)),
		zap.Int("plugins", len(p.plugins)))

	failed := make(map[string]bool)
	for _, plugin := range p.plugins {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if dep, blocked := blockedBy(plugin, failed); blocked {
			logger.Warn("plugin skipped",
				zap.String("plugin", plugin.Name),
				zap.String("failed_dependency", dep))
			state.Skipped = append(state.Skipped, plugin.Name)
			failed[plugin.Name] = true
			continue
		}

		result, err := runner.RunPlugin(metaEd, plugin)
		state.PluginResults = append(state.PluginResults, result)
		if err != nil {
			state.Duration = time.Since(start)
			return state, err
		}
		if !result.Succeeded() {
			failed[plugin.Name] = true
		}
	}

	state.Duration = time.Since(start)
	logger.Info("pipeline finished",
		zap.Duration("duration", state.Duration),
		zap.Int("validation_failures", len(metaEd.ValidationFailures)),
		zap.Bool("failed", state.Failed()))
	return state, nil
}

func blockedBy(plugin enhancer.Plugin, failed map[string]bool) (string, bool) {
	for _, dep := range plugin.Dependencies {
		if failed[dep] {
			return dep, true
		}
	}
	return "", false
}
