package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/campusprint/stationery-admin/docs"
	"github.com/campusprint/stationery-admin/internal/api/handler"
	"github.com/campusprint/stationery-admin/internal/api/middleware"
	"github.com/campusprint/stationery-admin/internal/core/service"
)

// Deps are the services the local API serves.
type Deps struct {
	Session   *service.SessionService
	Dashboard *service.DashboardService
	Board     *service.OrderBoard
	Inventory *service.Inventory
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = service.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// HTTP metrics get their own registry so several routers can coexist in
	// one process; /metrics serves it together with the default registry.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "stationery_admin",
		Subsystem:  "bff",
		Registerer: reg,
	}))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Session)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)
	orderHandler := handler.NewOrderHandler(d.Board)
	itemHandler := handler.NewItemHandler(d.Inventory)

	// --- Health probes, metrics and docs (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session routes ---
	api := e.Group("/api")
	api.GET("/session", sessionHandler.Get)
	api.POST("/session/login", sessionHandler.Login)
	api.POST("/session/register", sessionHandler.Register)
	api.POST("/session/logout", sessionHandler.Logout)
	api.POST("/session/refresh", sessionHandler.Refresh)

	// --- Routes that need a session ---
	authed := api.Group("", middleware.RequireSession(d.Session))
	authed.GET("/profile", sessionHandler.Profile)
	authed.GET("/dashboard", dashboardHandler.Get)

	authed.GET("/orders", orderHandler.ListOrders)
	authed.GET("/orders/:id", orderHandler.GetOrder)
	authed.POST("/orders/:id/complete", orderHandler.CompleteOrder)

	authed.GET("/printouts", orderHandler.ListPrintouts)
	authed.GET("/printouts/:id", orderHandler.GetPrintout)
	authed.POST("/printouts/:id/complete", orderHandler.CompletePrintout)
	authed.GET("/printouts/:id/download", orderHandler.DownloadPrintout)
	authed.GET("/printout-files/:id/download", orderHandler.DownloadPrintoutFile)

	authed.GET("/items", itemHandler.List)
	authed.POST("/items", itemHandler.Create)
	authed.PUT("/items/:id", itemHandler.Update)
	authed.DELETE("/items/:id", itemHandler.Delete)
	authed.PATCH("/items/:id/stock", itemHandler.ToggleStock)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
