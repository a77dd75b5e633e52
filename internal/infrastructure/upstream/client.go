// Package upstream talks to the stationery shop's REST API: the auth
// endpoints used by the session store and the typed admin operations exposed
// by Gateway.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/campusprint/stationery-admin/internal/api/metrics"
	"github.com/campusprint/stationery-admin/internal/core/domain"
)

const userAgent = "stationery-admin/1"

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds a whole exchange. Zero means no client-side timeout;
	// callers own cancellation through ctx.
	Timeout time.Duration
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    zerolog.Logger
}

// Client performs JSON exchanges against the upstream base URL. It holds no
// credentials of its own; callers pass the bearer value per request.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(&stampingTransport{next: base}),
		},
		log: opts.Logger,
	}
}

// BaseURL returns the upstream root the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// stampingTransport sets the headers every outbound request carries.
type stampingTransport struct {
	next http.RoundTripper
}

func (t *stampingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.next.RoundTrip(req)
}

// response is a fully read upstream reply.
type response struct {
	status     int
	statusText string
	header     http.Header
	body       []byte
}

func (r *response) ok() bool { return r.status >= 200 && r.status < 300 }

// fetch issues one request and reads the whole reply. The Authorization
// header is only set when token is non-empty.
func (c *Client) fetch(ctx context.Context, method, path, token string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(method, "error").Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("upstream request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	code := strconv.Itoa(resp.StatusCode)
	metrics.GatewayRequestsTotal.WithLabelValues(method, code).Inc()
	metrics.GatewayRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("upstream request")

	return &response{
		status:     resp.StatusCode,
		statusText: statusText(resp),
		header:     resp.Header,
		body:       raw,
	}, nil
}

// do is fetch plus the JSON contract: 2xx bodies decode into out, anything
// else becomes a *domain.RequestError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	resp, err := c.fetch(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return resp.requestError()
	}
	return resp.decode(out)
}

func (r *response) decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the "error" field of a JSON error envelope.
func (r *response) errorMessage() (string, bool) {
	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &env); err != nil || env.Error == "" {
		return "", false
	}
	return env.Error, true
}

func (r *response) requestError() error {
	if msg, ok := r.errorMessage(); ok {
		return &domain.RequestError{Status: r.status, Message: msg}
	}
	return domain.NewStatusError(r.status, r.statusText)
}

// statusText returns the reason phrase of the status line, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// Ping reports whether the upstream answers HTTP at all. Any status counts as
// reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
