package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

// SessionState is the part of the session store RequireSession needs.
type SessionState interface {
	State() domain.SessionState
}

// RequireSession rejects requests while no session is established. The
// error is rendered by the central error handler.
func RequireSession(s SessionState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.State() != domain.StateAuthenticated {
				return domain.ErrNotAuthenticated
			}
			return next(c)
		}
	}
}
