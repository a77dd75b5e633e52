package upstream

import (
	"context"
	"net/http"

	"github.com/campusprint/stationery-admin/internal/core/ports"
)

// Gateway is the authenticated request pipeline. Every call presents the
// access credential currently held by creds; it never refreshes on its own.
type Gateway struct {
	client *Client
	creds  ports.CredentialSource
}

func NewGateway(client *Client, creds ports.CredentialSource) *Gateway {
	return &Gateway{client: client, creds: creds}
}

// Do sends body as JSON and decodes a 2xx reply into out. Non-2xx replies
// return *domain.RequestError.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	return g.client.do(ctx, method, path, g.creds.AccessToken(), body, out)
}

func getJSON[T any](ctx context.Context, g *Gateway, path string) (T, error) {
	var out T
	err := g.Do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func sendJSON[T any](ctx context.Context, g *Gateway, method, path string, body any) (*T, error) {
	var out T
	if err := g.Do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
