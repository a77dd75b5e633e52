// Package demo is an in-memory stand-in for the stationery shop API. It
// serves the same auth and /stationery/ routes with seeded fixture data, so
// the client can be run and contract-tested without the real backend.
package demo

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

type Options struct {
	JWTSecret string
	// AccessTTL and RefreshTTL default to 15 minutes and 7 days.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// HashCost is the bcrypt cost for stored passwords; zero means
	// bcrypt.DefaultCost.
	HashCost int
	// Clock drives order timestamps and the dashboard's notion of today.
	// Token expiry always uses wall time.
	Clock func() time.Time
	// Empty skips the fixture data.
	Empty  bool
	Logger zerolog.Logger
}

// API is the demo upstream: a Store plus the HTTP surface over it.
type API struct {
	store    *Store
	tokens   *TokenIssuer
	validate *validator.Validate
	log      zerolog.Logger
}

func New(opts Options) (*API, error) {
	store := NewStore(opts.HashCost, opts.Clock)
	if !opts.Empty {
		if err := Seed(store); err != nil {
			return nil, err
		}
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &API{
		store:    store,
		tokens:   NewTokenIssuer(opts.JWTSecret, opts.AccessTTL, opts.RefreshTTL, nil),
		validate: v,
		log:      opts.Logger,
	}, nil
}

func (a *API) Store() *Store { return a.store }

// Router builds the Echo instance serving the upstream routes.
func (a *API) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = a.errorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		TargetHeader: echo.HeaderXRequestID,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			a.log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("request_id", v.RequestID).
				Msg("demo request")
			return nil
		},
	}))

	// --- Auth ---
	e.POST("/auth/login/", a.login)
	e.POST("/auth/register/", a.register)
	e.POST("/auth/token/refresh/", a.refresh)
	e.POST("/auth/logout/", a.logout)
	e.GET("/auth/user-details/", a.userDetails, a.authenticate)

	// --- Any signed-in user ---
	st := e.Group("/stationery", a.authenticate)
	st.GET("/item-list/", a.itemList)
	st.GET("/active-orders/", a.myOrders(domain.ScopeActive))
	st.GET("/past-orders/", a.myOrders(domain.ScopePast))
	st.GET("/active-printouts/", a.myPrintouts(domain.ScopeActive))
	st.GET("/past-printouts/", a.myPrintouts(domain.ScopePast))

	// --- Admin and staff only ---
	admin := e.Group("/stationery/admin", a.authenticate, requireRole(domain.RoleAdmin, domain.RoleStaff))
	admin.GET("/all-active-orders/", a.allOrders(domain.ScopeActive))
	admin.GET("/all-past-orders/", a.allOrders(domain.ScopePast))
	admin.GET("/all-active-printouts/", a.allPrintouts(domain.ScopeActive))
	admin.GET("/all-past-printouts/", a.allPrintouts(domain.ScopePast))
	admin.GET("/dashboard-stats/", a.dashboardStats)

	admin.GET("/orders/:order_id/", a.orderDetails)
	admin.POST("/orders/:order_id/complete/", a.completeOrder)
	admin.GET("/printouts/:order_id/", a.printoutDetails)
	admin.POST("/printouts/:order_id/complete/", a.completePrintout)
	admin.GET("/printouts/:order_id/download/", a.downloadPrintout)
	admin.GET("/printout-files/:file_id/download/", a.downloadPrintoutFile)

	admin.POST("/items/", a.createItem)
	admin.PUT("/items/:item_id/", a.updateItem)
	admin.DELETE("/items/:item_id/delete/", a.deleteItem)
	admin.PATCH("/items/:item_id/toggle-stock/", a.toggleStock)

	return e
}

// errorHandler renders framework errors as {"detail": "..."}; handlers
// write their own {"error": "..."} bodies.
func (a *API) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "A server error occurred."
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	} else {
		a.log.Error().Err(err).Str("path", c.Path()).Msg("demo handler failed")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"detail": msg})
}
