package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

const (
	pathLogin       = "/auth/login/"
	pathRegister    = "/auth/register/"
	pathRefresh     = "/auth/token/refresh/"
	pathLogout      = "/auth/logout/"
	pathUserDetails = "/auth/user-details/"
)

// AuthClient implements ports.AuthAPI over the upstream auth endpoints.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email and password for a credential pair. A rejection
// becomes *domain.AuthenticationError carrying the server's message.
func (a *AuthClient) Login(ctx context.Context, email, password string) (domain.CredentialPair, error) {
	resp, err := a.client.fetch(ctx, http.MethodPost, pathLogin, "", loginRequest{Email: email, Password: password})
	if err != nil {
		return domain.CredentialPair{}, err
	}
	if !resp.ok() {
		msg, ok := resp.errorMessage()
		if !ok {
			msg = "Login failed"
		}
		return domain.CredentialPair{}, &domain.AuthenticationError{Message: msg}
	}

	var pair domain.CredentialPair
	if err := resp.decode(&pair); err != nil {
		return domain.CredentialPair{}, err
	}
	if pair.Access == "" {
		return domain.CredentialPair{}, &domain.AuthenticationError{Message: "Login failed"}
	}
	return pair, nil
}

// Register creates an account. It does not establish a session. Rejections
// become *domain.ValidationError with the server's per-field messages.
func (a *AuthClient) Register(ctx context.Context, reg domain.Registration) error {
	resp, err := a.client.fetch(ctx, http.MethodPost, pathRegister, "", reg)
	if err != nil {
		return err
	}
	if resp.ok() {
		return nil
	}
	return &domain.ValidationError{Fields: fieldErrors(resp)}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (domain.CredentialPair, error) {
	var pair domain.CredentialPair
	if err := a.client.do(ctx, http.MethodPost, pathRefresh, "", refreshRequest{Refresh: refreshToken}, &pair); err != nil {
		return domain.CredentialPair{}, err
	}
	if pair.Access == "" {
		return domain.CredentialPair{}, fmt.Errorf("refresh response carried no access token")
	}
	return pair, nil
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	return a.client.do(ctx, http.MethodPost, pathLogout, "", logoutRequest{RefreshToken: refreshToken}, nil)
}

// UserDetails fetches the Identity bound to accessToken.
func (a *AuthClient) UserDetails(ctx context.Context, accessToken string) (*domain.Identity, error) {
	var id domain.Identity
	if err := a.client.do(ctx, http.MethodGet, pathUserDetails, accessToken, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// fieldErrors normalizes a DRF-style error body ({"field": ["msg", ...]} or
// {"field": "msg"}) into a field → messages map.
func fieldErrors(resp *response) map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.body, &raw); err != nil || len(raw) == 0 {
		return map[string][]string{"non_field_errors": {fmt.Sprintf("HTTP %d: %s", resp.status, resp.statusText)}}
	}

	fields := make(map[string][]string, len(raw))
	for k, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			fields[k] = list
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err == nil {
			fields[k] = []string{one}
			continue
		}
		fields[k] = []string{string(v)}
	}
	return fields
}
