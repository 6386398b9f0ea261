package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metaed-lang/metaed/internal/core/pipeline"
	"github.com/metaed-lang/metaed/internal/web/inspect"
	"github.com/metaed-lang/metaed/internal/web/server"
)

type serveOptions struct {
	*rootOptions
	host    string
	port    int
	verbose bool
}

// NewServeCommand creates the serve command
func NewServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiled model over HTTP",
		Long: `Compile the configured projects and serve a read-only JSON view of the
result. POST /rebuild recompiles from disk and swaps the served state.

Routes:
  GET  /run                                  last run summary
  GET  /failures[?category=error|warning]    validation failures
  GET  /namespaces                           namespace summaries
  GET  /namespaces/{ns}/tables[/{table}]     derived tables
  GET  /namespaces/{ns}/aggregates           API aggregates
  GET  /namespaces/{ns}/associations         API association definitions
  GET  /namespaces/{ns}/domain-model         domain model definition
  POST /rebuild                              recompile`,
		Example: `  metaed serve
  metaed serve --port 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Listen port (default from config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	s, err := openSession(cmd, opts.rootOptions, opts.verbose, false)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	if opts.host != "" {
		s.cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		s.cfg.Server.Port = opts.port
	}

	build := func(ctx context.Context) (*pipeline.State, error) {
		// Rebuilds re-read metaed.yml.
		fresh, err := openSession(cmd, opts.rootOptions, opts.verbose, false)
		if err != nil {
			return nil, fmt.Errorf("config could not be reloaded")
		}
		fresh.logger = s.logger
		return fresh.compile(ctx)
	}

	state, err := s.compile(cmd.Context())
	if err != nil {
		// A nil state answers 503 until a rebuild succeeds.
		s.logger.Error("initial build failed", zap.Error(err))
		state = nil
	}

	inspector := inspect.New(state, build, s.logger)
	srv, err := server.New(server.DefaultConfig(s.cfg.Server.Addr(), inspector.Handler()), s.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
