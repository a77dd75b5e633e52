package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func TestAuthClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "a@b.com" || req.Password != "p" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"A1","refresh":"R1"}`))
	})
	a := NewAuthClient(c)

	pair, err := a.Login(context.Background(), "a@b.com", "p")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.Access != "A1" || pair.Refresh != "R1" {
		t.Fatalf("unexpected pair %+v", pair)
	}

	_, err = a.Login(context.Background(), "a@b.com", "wrong")
	var authErr *domain.AuthenticationError
	if !errors.As(err, &authErr) || authErr.Message != "Invalid credentials" {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
}

func TestAuthClient_LoginFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	a := NewAuthClient(c)

	_, err := a.Login(context.Background(), "a@b.com", "p")
	if err == nil || err.Error() != "Login failed" {
		t.Fatalf("expected Login failed, got %v", err)
	}
}

func TestAuthClient_RegisterFieldErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"email":["user with this email already exists."],"number":"too long"}`))
	})
	a := NewAuthClient(c)

	err := a.Register(context.Background(), domain.Registration{Email: "a@b.com"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := ve.Fields["email"]; len(got) != 1 || got[0] != "user with this email already exists." {
		t.Fatalf("unexpected email errors %v", got)
	}
	if got := ve.Fields["number"]; len(got) != 1 || got[0] != "too long" {
		t.Fatalf("unexpected number errors %v", got)
	}
}

func TestAuthClient_RefreshAndLogoutPayloads(t *testing.T) {
	bodies := map[string]map[string]string{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies[r.URL.Path] = body
		if r.Header.Get("Authorization") != "" {
			t.Errorf("auth endpoints must not carry a bearer header")
		}
		switch r.URL.Path {
		case pathRefresh:
			_, _ = w.Write([]byte(`{"access":"A2"}`))
		case pathLogout:
			w.WriteHeader(http.StatusResetContent)
		}
	})
	a := NewAuthClient(c)

	pair, err := a.Refresh(context.Background(), "R1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.Access != "A2" || pair.Refresh != "" {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if err := a.Logout(context.Background(), "R1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if bodies[pathRefresh]["refresh"] != "R1" {
		t.Fatalf("unexpected refresh body %v", bodies[pathRefresh])
	}
	if bodies[pathLogout]["refresh_token"] != "R1" {
		t.Fatalf("unexpected logout body %v", bodies[pathLogout])
	}
}

func TestAuthClient_UserDetailsCarriesBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"email":"a@b.com","name":"Ana","number":"555","role":"STAFF"}`))
	})
	a := NewAuthClient(c)

	id, err := a.UserDetails(context.Background(), "A1")
	if err != nil {
		t.Fatalf("UserDetails: %v", err)
	}
	if id.Email != "a@b.com" || !id.IsStaff() {
		t.Fatalf("unexpected identity %+v", id)
	}

	if _, err := a.UserDetails(context.Background(), "bad"); err == nil {
		t.Fatalf("expected error for rejected token")
	}
}
