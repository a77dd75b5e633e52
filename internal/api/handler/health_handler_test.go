package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func probe(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, body
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	rec, body := probe(t, NewReadinessHandler(map[string]Check{"credentials": ok, "upstream": ok}).Readiness)

	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", rec.Code, body.Status)
	}
	if len(body.Dependencies) != 2 {
		t.Fatalf("expected two dependencies, got %+v", body.Dependencies)
	}
}

func TestReadiness_OneFailing(t *testing.T) {
	rec, body := probe(t, NewReadinessHandler(map[string]Check{
		"credentials": func(context.Context) error { return nil },
		"upstream":    func(context.Context) error { return errors.New("connection refused") },
	}).Readiness)

	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected 503 degraded, got %d %q", rec.Code, body.Status)
	}
	up := body.Dependencies["upstream"]
	if up.Status != "unhealthy" || up.Error != "connection refused" {
		t.Fatalf("unexpected upstream status %+v", up)
	}
	if body.Dependencies["credentials"].Status != "ok" {
		t.Fatalf("credentials should stay ok, got %+v", body.Dependencies["credentials"])
	}
}

func TestReadiness_ChecksShareDeadline(t *testing.T) {
	var deadline bool
	_, body := probe(t, NewReadinessHandler(map[string]Check{
		"slow": func(ctx context.Context) error {
			_, deadline = ctx.Deadline()
			return nil
		},
	}).Readiness)
	if !deadline || body.Status != "ok" {
		t.Fatalf("expected check to run under a deadline, got deadline=%v status=%q", deadline, body.Status)
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("liveness: %v", err)
	}
	var body livenessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Status != "ok" || body.Uptime == "" {
		t.Fatalf("unexpected liveness %d %s", rec.Code, rec.Body.String())
	}
}
