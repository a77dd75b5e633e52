package demo

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

const testSecret = "test-secret"

func newTestAPI(t *testing.T) *API {
	t.Helper()
	api, err := New(Options{JWTSecret: testSecret, HashCost: bcrypt.MinCost, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("new demo api: %v", err)
	}
	return api
}

func call(t *testing.T, api *API, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, api *API, email, password string) domain.CredentialPair {
	t.Helper()
	rec := call(t, api, http.MethodPost, "/auth/login/", "", map[string]string{"email": email, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var pair domain.CredentialPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	return pair
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t)
	rec := call(t, api, http.MethodPost, "/auth/login/", "", map[string]string{"email": AdminEmail, "password": "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Invalid credentials"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestUserDetails(t *testing.T) {
	api := newTestAPI(t)
	pair := login(t, api, StaffEmail, StaffPassword)

	rec := call(t, api, http.MethodGet, "/auth/user-details/", pair.Access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var id domain.Identity
	if err := json.Unmarshal(rec.Body.Bytes(), &id); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id.Email != StaffEmail || id.Role != domain.RoleStaff {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestAdminRoutes_RequireStaffRole(t *testing.T) {
	api := newTestAPI(t)

	if rec := call(t, api, http.MethodGet, "/stationery/admin/all-active-orders/", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	student := login(t, api, "ansh@campus.edu", StudentPassword)
	if rec := call(t, api, http.MethodGet, "/stationery/admin/all-active-orders/", student.Access, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a student, got %d", rec.Code)
	}

	// Refresh tokens are not accepted as bearer credentials.
	admin := login(t, api, AdminEmail, AdminPassword)
	if rec := call(t, api, http.MethodGet, "/stationery/admin/all-active-orders/", admin.Refresh, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a refresh token, got %d", rec.Code)
	}
	if rec := call(t, api, http.MethodGet, "/stationery/admin/all-active-orders/", admin.Access, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestRefresh_RotatesAndRejectsReuse(t *testing.T) {
	api := newTestAPI(t)
	pair := login(t, api, AdminEmail, AdminPassword)

	rec := call(t, api, http.MethodPost, "/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body.String())
	}
	var next domain.CredentialPair
	if err := json.Unmarshal(rec.Body.Bytes(), &next); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if next.Access == "" || next.Refresh == "" || next.Refresh == pair.Refresh {
		t.Fatalf("expected a rotated pair, got %+v", next)
	}

	rec = call(t, api, http.MethodPost, "/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected reuse to be rejected, got %d", rec.Code)
	}
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	api := newTestAPI(t)
	pair := login(t, api, AdminEmail, AdminPassword)

	rec := call(t, api, http.MethodPost, "/auth/logout/", "", map[string]string{"refresh_token": pair.Refresh})
	if rec.Code != http.StatusResetContent {
		t.Fatalf("expected 205, got %d", rec.Code)
	}
	rec = call(t, api, http.MethodPost, "/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %d", rec.Code)
	}
}

func TestRegister_FieldErrors(t *testing.T) {
	api := newTestAPI(t)

	rec := call(t, api, http.MethodPost, "/auth/register/", "", map[string]string{"email": "not-an-email", "role": "ROOT"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var fields map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, f := range []string{"email", "password", "name", "number", "role"} {
		if len(fields[f]) == 0 {
			t.Errorf("expected an error for %q in %v", f, fields)
		}
	}

	rec = call(t, api, http.MethodPost, "/auth/register/", "", domain.Registration{
		Email: AdminEmail, Password: "pw", Name: "Dup", Number: "1", Role: domain.RoleStaff,
	})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "already exists") {
		t.Fatalf("expected duplicate email error, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCompleteOrder_NotFound(t *testing.T) {
	api := newTestAPI(t)
	pair := login(t, api, AdminEmail, AdminPassword)

	rec := call(t, api, http.MethodPost, "/stationery/admin/orders/999/complete/", pair.Access, nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error":"Order not found"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestDownloadPrintout_SetsFilename(t *testing.T) {
	api := newTestAPI(t)
	pair := login(t, api, AdminEmail, AdminPassword)

	rec := call(t, api, http.MethodGet, "/stationery/admin/printouts/1/download/", pair.Access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="lab-record.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-1.4")) {
		t.Fatalf("expected a pdf body")
	}
}

func TestMyOrders_OnlyCallersRows(t *testing.T) {
	api := newTestAPI(t)
	pair := login(t, api, "ansh@campus.edu", StudentPassword)

	rec := call(t, api, http.MethodGet, "/stationery/active-orders/", pair.Access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []orderRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].UserName != "Ansh Kapila" {
		t.Fatalf("expected only Ansh's active order, got %+v", rows)
	}
}
