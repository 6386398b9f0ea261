package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/metaed-lang/metaed/internal/cli/config"
	"github.com/metaed-lang/metaed/internal/cli/ui"
	"github.com/metaed-lang/metaed/internal/core/pipeline"
	"github.com/metaed-lang/metaed/internal/plugin"
)

// session is what a command needs to compile: the loaded config and a logger.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

// openSession loads the config and builds the logger. Config problems are
// rendered to stderr and reported as errReported. Unless verbose, a logger
// below warn level is raised to warn so progress output stays readable.
func openSession(cmd *cobra.Command, opts *rootOptions, verbose, quiet bool) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), opts.noColor))
		return nil, errReported
	}
	if len(cfg.Projects) == 0 {
		message := "no projects configured"
		if opts.configPath == "" && !config.InProject() {
			message = "no metaed.yml in the current directory; use --config to point at one"
		}
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(message, opts.noColor))
		return nil, errReported
	}

	logger, err := cfg.NewLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if quiet && !verbose && logger.Core().Enabled(zapcore.InfoLevel) {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	return &session{cfg: cfg, logger: logger}, nil
}

// compile runs the standard plugins over the configured projects.
func (s *session) compile(ctx context.Context) (*pipeline.State, error) {
	return pipeline.New(s.logger, plugin.Default()...).Run(ctx, pipeline.Options{
		DataStandardVersion:      s.cfg.DataStandardVersion,
		Projects:                 s.cfg.ProjectSpecs(),
		TargetTechnologyVersions: s.cfg.Plugins,
	})
}
