package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoRefreshCredential is returned when a refresh is requested but no
	// refresh credential is persisted.
	ErrNoRefreshCredential = errors.New("no refresh token available")
	// ErrSessionExpired marks a terminal refresh failure; local state has been
	// cleared and the user must sign in again.
	ErrSessionExpired = errors.New("failed to refresh token")
	// ErrNotAuthenticated is returned by operations that require a credential
	// when none is present.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidInput     = errors.New("invalid input")
)

// AuthenticationError is returned when the login endpoint rejects the
// supplied credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ValidationError carries per-field messages, either from local validation or
// from the registration endpoint.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return strings.Join(parts, "; ")
}

// RequestError is any other non-2xx API response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// NewStatusError builds the generic "HTTP <code>: <text>" error used when the
// response body carries no message.
func NewStatusError(status int, text string) *RequestError {
	return &RequestError{Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, text)}
}
