package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

// errorResponse is the body of every non-2xx BFF reply.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// sentinelStatus maps bare domain errors to a status. The error text is safe
// to show as is.
var sentinelStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotAuthenticated, http.StatusUnauthorized},
	{domain.ErrSessionExpired, http.StatusUnauthorized},
	{domain.ErrNoRefreshCredential, http.StatusUnauthorized},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrInvalidTransition, http.StatusConflict},
}

// NewHTTPErrorHandler renders errors as errorResponse. Upstream failures keep
// the upstream status; anything unrecognised is logged and becomes a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body, known := classify(err)
		if !known {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("route", c.Path()).
				Msg("request failed")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func classify(err error) (int, errorResponse, bool) {
	var (
		he      *echo.HTTPError
		authErr *domain.AuthenticationError
		valErr  *domain.ValidationError
		reqErr  *domain.RequestError
	)
	switch {
	case errors.As(err, &he):
		return he.Code, errorResponse{Error: fmt.Sprint(he.Message)}, true
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, errorResponse{Error: authErr.Message}, true
	case errors.As(err, &valErr):
		return http.StatusBadRequest, errorResponse{Error: valErr.Error(), Fields: valErr.Fields}, true
	case errors.As(err, &reqErr):
		status := reqErr.Status
		if status < http.StatusBadRequest || status >= 600 {
			status = http.StatusBadGateway
		}
		return status, errorResponse{Error: reqErr.Message}, true
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.status, errorResponse{Error: err.Error()}, true
		}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}, false
}
