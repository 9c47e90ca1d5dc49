package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/stackrender/internal/httpapi"
)

type serveOptions struct {
	Addr    string
	Timeout time.Duration
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve exposes GET /healthz, GET /modes and POST /render/{mode}. The request
body of a render is a question document in YAML or JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address, overriding server.addr")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Per-request timeout")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootFlags, opts serveOptions) error {
	ctx, app, err := newAppContext(cmd, root, "serve")
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := app.Config.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	handler := httpapi.NewRouter(app.Service, httpapi.Options{
		CORSOrigins: app.Config.Server.CORSOrigins,
		Timeout:     opts.Timeout,
		Logger:      app.Logger,
	})

	return httpapi.ListenAndServe(ctx, addr, handler, app.Logger)
}
