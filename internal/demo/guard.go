package demo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const ctxCaller = "demo.caller"

// caller is the account behind a verified access token.
type caller struct {
	ID   int64
	Role string
}

var (
	errNoCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	errBadToken      = echo.NewHTTPError(http.StatusUnauthorized, "Given token not valid for any token type")
	errUserGone      = echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	errForbidden     = echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
)

// authenticate admits requests bearing a valid access token for an account
// that still exists. The role is read from the store, so a role change takes
// effect before the token expires.
func (a *API) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return errNoCredentials
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			return errBadToken
		}
		claims, err := a.tokens.ParseAccess(token)
		if err != nil {
			return errBadToken
		}
		id, err := a.store.User(claims.UserID)
		if err != nil {
			return errUserGone
		}
		c.Set(ctxCaller, caller{ID: id.ID, Role: id.Role})
		return next(c)
	}
}

// requireRole must run after authenticate.
func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who, _ := c.Get(ctxCaller).(caller)
			for _, r := range roles {
				if who.Role == r {
					return next(c)
				}
			}
			return errForbidden
		}
	}
}

func callerID(c echo.Context) int64 {
	who, _ := c.Get(ctxCaller).(caller)
	return who.ID
}
