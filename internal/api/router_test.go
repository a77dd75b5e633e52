package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusprint/stationery-admin/internal/api/handler"
	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/ports"
	"github.com/campusprint/stationery-admin/internal/core/service"
	"github.com/campusprint/stationery-admin/internal/demo"
	"github.com/campusprint/stationery-admin/internal/infrastructure/credstore"
	"github.com/campusprint/stationery-admin/internal/infrastructure/upstream"
)

type testStack struct {
	e         *echo.Echo
	store     *credstore.Memory
	redirects *atomic.Int32
}

// newTestStack wires the local API to the demo upstream through the real
// client, services and an in-memory credential store.
func newTestStack(t *testing.T) testStack {
	t.Helper()
	log := zerolog.Nop()

	up, err := demo.New(demo.Options{JWTSecret: "router-test", HashCost: bcrypt.MinCost, Logger: log})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	srv := httptest.NewServer(up.Router())
	t.Cleanup(srv.Close)

	client := upstream.NewClient(upstream.Options{BaseURL: srv.URL, Logger: log})
	store := credstore.NewMemory()
	redirects := &atomic.Int32{}
	session := service.NewSessionService(upstream.NewAuthClient(client), store,
		ports.NavigatorFunc(func() { redirects.Add(1) }), log)
	gateway := upstream.NewGateway(client, session)

	e := NewRouter(Deps{
		Session:   session,
		Dashboard: service.NewDashboardService(gateway, log),
		Board:     service.NewOrderBoard(gateway, log),
		Inventory: service.NewInventory(gateway, log),
		Checks: map[string]handler.Check{
			"credentials": store.Ping,
			"upstream":    client.Ping,
		},
		Logger: log,
	})
	return testStack{e: e, store: store, redirects: redirects}
}

func (s testStack) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s testStack) signIn(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/session/login", map[string]string{
		"email": demo.AdminEmail, "password": demo.AdminPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestRouter_RequiresSession(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, http.MethodGet, "/api/orders", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/session", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"state":"unauthenticated"`) {
		t.Fatalf("unexpected session response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginPersistsCredentials(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, http.MethodPost, "/api/session/login", map[string]string{"email": demo.AdminEmail, "password": "bad"})
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("expected 401 Invalid credentials, got %d %s", rec.Code, rec.Body.String())
	}

	s.signIn(t)
	ctx := context.Background()
	access, _ := s.store.Get(ctx, domain.KeyAccessToken)
	refresh, _ := s.store.Get(ctx, domain.KeyRefreshToken)
	if access == "" || refresh == "" {
		t.Fatalf("expected both credentials persisted")
	}

	rec = s.do(t, http.MethodGet, "/api/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: %d", rec.Code)
	}
	if id := decode[domain.Identity](t, rec); id.Email != demo.AdminEmail {
		t.Fatalf("unexpected profile %+v", id)
	}
}

func TestRouter_DashboardAndOrderBoard(t *testing.T) {
	s := newTestStack(t)
	s.signIn(t)

	rec := s.do(t, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", rec.Code, rec.Body.String())
	}
	dash := decode[service.Dashboard](t, rec)
	if dash.Stats.ActiveOrdersCount != len(dash.ActiveOrders) {
		t.Fatalf("stats disagree with list: %d vs %d", dash.Stats.ActiveOrdersCount, len(dash.ActiveOrders))
	}

	type listResp struct {
		Count  int `json:"count"`
		Orders []struct {
			OrderID  domain.OrderID `json:"order_id"`
			UserName string         `json:"user_name"`
			Seen     bool           `json:"seen"`
		} `json:"orders"`
	}

	rec = s.do(t, http.MethodGet, "/api/orders?q=ansh", nil)
	list := decode[listResp](t, rec)
	if list.Count != 1 || list.Orders[0].UserName != "Ansh Kapila" {
		t.Fatalf("unexpected filtered list %+v", list)
	}
	target := list.Orders[0].OrderID

	if rec := s.do(t, http.MethodGet, "/api/orders/"+target.String(), nil); rec.Code != http.StatusOK {
		t.Fatalf("details: %d", rec.Code)
	}
	list = decode[listResp](t, s.do(t, http.MethodGet, "/api/orders?q=ansh", nil))
	if !list.Orders[0].Seen {
		t.Fatalf("expected order to be marked seen after viewing details")
	}

	if rec := s.do(t, http.MethodPost, "/api/orders/"+target.String()+"/complete", nil); rec.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", rec.Code, rec.Body.String())
	}
	list = decode[listResp](t, s.do(t, http.MethodGet, "/api/orders?q=ansh", nil))
	if list.Count != 0 {
		t.Fatalf("completed order still active: %+v", list)
	}

	rec = s.do(t, http.MethodPost, "/api/orders/999/complete", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error":"Order not found"`) {
		t.Fatalf("expected upstream 404 to pass through, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/orders?sort=price", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort field, got %d", rec.Code)
	}
}

func TestRouter_PrintoutDownload(t *testing.T) {
	s := newTestStack(t)
	s.signIn(t)

	rec := s.do(t, http.MethodGet, "/api/printouts/1/download", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != "inline; filename=lab-record.pdf" {
		t.Fatalf("unexpected disposition %q", got)
	}

	rec = s.do(t, http.MethodGet, "/api/printout-files/2/download", nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("file download: %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "assignment-3.pdf") {
		t.Fatalf("unexpected disposition %q", got)
	}

	if rec := s.do(t, http.MethodGet, "/api/printout-files/abc/download", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad file id, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/printout-files/999/download", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected upstream 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Inventory(t *testing.T) {
	s := newTestStack(t)
	s.signIn(t)

	rec := s.do(t, http.MethodPost, "/api/items", map[string]any{"item": "Ruler", "price": "8.00"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.Item](t, rec)

	rec = s.do(t, http.MethodGet, "/api/items?q=rul", nil)
	items := decode[[]domain.Item](t, rec)
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("expected search to find the new item, got %+v", items)
	}

	rec = s.do(t, http.MethodPatch, "/api/items/"+itoa(created.ID)+"/stock", nil)
	if toggle := decode[domain.StockToggle](t, rec); toggle.InStock {
		t.Fatalf("expected item out of stock, got %+v", toggle)
	}

	rec = s.do(t, http.MethodPost, "/api/items", map[string]any{"price": "8.00"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}

	if rec := s.do(t, http.MethodDelete, "/api/items/"+itoa(created.ID), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
}

func TestRouter_LogoutClearsSession(t *testing.T) {
	s := newTestStack(t)
	s.signIn(t)

	if rec := s.do(t, http.MethodPost, "/api/session/logout", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rec.Code)
	}
	if s.redirects.Load() != 1 {
		t.Fatalf("expected one redirect to login, got %d", s.redirects.Load())
	}
	access, _ := s.store.Get(context.Background(), domain.KeyAccessToken)
	if access != "" {
		t.Fatalf("access credential survived logout")
	}
	if rec := s.do(t, http.MethodGet, "/api/profile", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestStack(t)

	if rec := s.do(t, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("liveness: %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"upstream":{"status":"ok"}`) {
		t.Fatalf("readiness: %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "stationery_admin_bff_requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

func itoa(n int64) string { return domain.OrderID(n).String() }
