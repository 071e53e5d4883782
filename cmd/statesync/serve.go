package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/statesync/internal/demo"
	"github.com/vango-dev/statesync/pkg/middleware"
	"github.com/vango-dev/statesync/pkg/server"
	"github.com/vango-dev/statesync/pkg/statesync"
)

const widgetName = "developer-mode"

func serveCmd(newLogger func() (*slog.Logger, error)) *cobra.Command {
	var (
		addr   string
		stores storeFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the developer mode switch over HTTP",
		Long: `Serve the developer mode switch as a live page.

Routes:
  GET /          server-rendered page
  GET /live      WebSocket session
  GET /healthz   liveness
  GET /metrics   Prometheus metrics

Examples:
  statesync serve
  statesync serve --addr=:9000
  statesync serve --store=s3 --bucket=my-flags --endpoint=http://localhost:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := stores.open(ctx)
			if err != nil {
				return err
			}
			return runServe(ctx, addr, store, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	stores.register(cmd)

	return cmd
}

func runServe(ctx context.Context, addr string, store demo.FlagStore, logger *slog.Logger) error {
	flag, err := demo.LoadFlag(ctx, store)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.Prometheus(middleware.WithRegistry(reg))

	cfg := server.DefaultConfig()
	cfg.Addr = addr
	cfg.Title = "Developer mode"
	cfg.Logger = logger
	cfg.Registry = reg

	srv := server.New(cfg, mountDeveloperMode(flag, metrics))
	return srv.ListenAndServe(ctx)
}

// mountDeveloperMode returns a MountFunc that gives each session its own
// switch over the shared flag. A commit in one session snaps the others.
func mountDeveloperMode(flag *demo.Flag, metrics *middleware.Metrics) server.MountFunc {
	return func(s *server.Session) server.Component {
		mode := demo.NewSharedDeveloperMode(s.Context(), flag,
			demo.WithLogger(s.Logger()),
			demo.WithDispatch(s.Dispatch),
			demo.WithOwner(s.Owner()),
			demo.WithStateSyncOptions(
				statesync.WithObserver(metrics.SessionObserver(s.ID)),
				statesync.WithInterceptor(middleware.OpenTelemetry(widgetName)),
				statesync.WithInterceptor(metrics.Interceptor(widgetName)),
			),
		)
		s.Owner().OnCleanup(func() { metrics.ForgetSession(s.ID) })
		server.Track[demo.State](s, mode)
		return mode
	}
}
