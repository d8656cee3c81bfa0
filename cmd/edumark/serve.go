package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"edumark/internal/app"
	"edumark/internal/chat"
	"edumark/internal/devserver"
)

const serveLongDesc string = `Serve the chat handler over HTTP.

Routes:
  POST|OPTIONS /chat   the same handler the Lambda runs
  GET /health          service, variant and backend
  GET /metrics         Prometheus metrics

Examples:
  edumark serve
  edumark serve --variant tutor --addr :9000`

type serveCommander struct {
	addr string
}

func newServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat handler over HTTP",
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.addr, "addr", ":8080", "Listen address")
	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, os.Getenv, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Logger.Sync() }()

	srv := devserver.New(a.Logger)
	srv.SetupHandlers(
		a.Handler.Handle,
		chat.HealthHandler(a.Variant.Name, a.Config.Backend, a.Config.AllowOrigin),
		a.Registry,
	)
	return srv.Start(ctx, c.addr)
}
