package commands

import (
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/lql/internal/cli/config"
	"github.com/leapstack-labs/lql/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP transpilation service",
		Long: `Start an HTTP server exposing the transpiler.

Endpoints:
  POST /v1/compile   Transpile a query ({"source": ..., "dialect": ...})
  POST /v1/check     Validate a query without emitting SQL
  GET  /v1/dialects  List supported dialects
  GET  /healthz      Health check`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			if addr == "" {
				addr = cfg.Serve.Addr
			}

			ins, cleanup, err := newInspector(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := server.New(server.Config{
				Addr:             addr,
				StrictPagination: cfg.StrictPagination,
				Inspector:        ins,
				Logger:           logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, "+config.DefaultServeAddr+")")

	return cmd
}
