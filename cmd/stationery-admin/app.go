package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/core/ports"
	"github.com/campusprint/stationery-admin/internal/core/service"
	"github.com/campusprint/stationery-admin/internal/infrastructure/credstore"
	"github.com/campusprint/stationery-admin/internal/infrastructure/upstream"
	"github.com/campusprint/stationery-admin/internal/infrastructure/viewer"
	"github.com/campusprint/stationery-admin/internal/pkg/config"
	"github.com/campusprint/stationery-admin/internal/telemetry"
)

// app is the wired service graph shared by the CLI commands and serve.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     credstore.Store
	client    *upstream.Client
	session   *service.SessionService
	gateway   *upstream.Gateway
	dashboard *service.DashboardService
	board     *service.OrderBoard
	inventory *service.Inventory
	viewer    *viewer.Browser

	shutdownTracing func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, nav ports.Navigator) (*app, error) {
	store, err := credstore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("backend", cfg.Credentials.Backend).
		Str("profile", cfg.Credentials.Profile).
		Msg("credential store opened")

	client := upstream.NewClient(upstream.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  log.With().Str("component", "gateway").Logger(),
	})
	session := service.NewSessionService(
		upstream.NewAuthClient(client),
		store,
		nav,
		log.With().Str("component", "session").Logger(),
	)
	gateway := upstream.NewGateway(client, session)

	return &app{
		cfg:             cfg,
		log:             log,
		store:           store,
		client:          client,
		session:         session,
		gateway:         gateway,
		dashboard:       service.NewDashboardService(gateway, log),
		board:           service.NewOrderBoard(gateway, log),
		inventory:       service.NewInventory(gateway, log),
		viewer:          viewer.NewBrowser("", cfg.Viewer.ReleaseDelay, log),
		shutdownTracing: telemetry.Setup(ctx, cfg.Telemetry, serviceName, log),
	}, nil
}

// Close waits for opened files to be released, flushes traces and releases
// the credential backend. Cancelling ctx cuts the file wait short; the files
// are then removed at once.
func (a *app) Close(ctx context.Context) error {
	a.viewer.Drain(ctx)
	ctx = context.WithoutCancel(ctx)
	return errors.Join(a.shutdownTracing(ctx), a.store.Close())
}

// cliNavigator has nowhere to navigate to; it tells the user how to get a
// new session.
type cliNavigator struct {
	log zerolog.Logger
}

func (n cliNavigator) RedirectToLogin() {
	n.log.Info().Msg("signed out; run `stationery-admin login` to start a new session")
}
