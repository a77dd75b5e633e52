package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campusprint/stationery-admin/internal/api"
	"github.com/campusprint/stationery-admin/internal/api/handler"
	"github.com/campusprint/stationery-admin/internal/demo"
	"github.com/campusprint/stationery-admin/internal/pkg/config"
	"github.com/campusprint/stationery-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var (
		host      string
		port      string
		ephemeral bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin views as a local JSON API",
		Long: `serve exposes the session, dashboard, order board and inventory over HTTP
for a browser front end. It listens on loopback by default: the API carries
no caller authentication of its own, so anyone who reaches it acts as the
signed-in user. Health probes are at /health and /health/ready,
Prometheus metrics at /metrics and API docs at /swagger/index.html.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ephemeral {
				c.cfg.Credentials.Backend = config.BackendMemory
			}
			if host != "" {
				c.cfg.Server.Host = host
			}
			if port != "" {
				c.cfg.Server.Port = port
			}
			addr := c.cfg.Server.Addr()
			a, err := c.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.session.Bootstrap(cmd.Context()); err != nil {
				return err
			}

			e := api.NewRouter(api.Deps{
				Session:   a.session,
				Dashboard: a.dashboard,
				Board:     a.board,
				Inventory: a.inventory,
				Checks: map[string]handler.Check{
					"credentials": a.store.Ping,
					"upstream":    a.client.Ping,
				},
				Logger: a.log,
			})
			a.log.Info().
				Str("addr", addr).
				Str("upstream", a.client.BaseURL()).
				Str("state", string(a.session.State())).
				Msg("serving admin API")
			return serve(cmd.Context(), e, addr, a.log)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (default $HOST or 127.0.0.1); anyone who can reach it uses your session")
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default $PORT or 8080)")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "Keep credentials in memory only")
	return cmd
}

func (c *cli) demoAPICmd() *cobra.Command {
	var host, port string
	cmd := &cobra.Command{
		Use:   "demo-api",
		Short: "Run an in-memory stand-in for the stationery API with sample data",
		Long: `demo-api serves the upstream auth and /stationery/ routes from memory.
Sign in with admin@campus.edu / admin123 or staff@campus.edu / staff123.
Everything is lost when the process exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if host != "" {
				c.cfg.Demo.Host = host
			}
			if port != "" {
				c.cfg.Demo.Port = port
			}
			addr := c.cfg.Demo.Addr()
			log := logger.For("demo-api")
			d, err := demo.New(demo.Options{JWTSecret: c.cfg.Demo.JWTSecret, Logger: log})
			if err != nil {
				return err
			}
			log.Info().Str("addr", addr).Msg("demo API listening")
			return serve(cmd.Context(), d.Router(), addr, log)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (default $DEMO_HOST or 127.0.0.1)")
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default $DEMO_PORT or 8000)")
	return cmd
}

// serve runs e on addr until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
