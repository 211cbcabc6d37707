package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"woopm.dev/internal/obs"
	"woopm.dev/internal/session"
)

const maxResponseBytes = 10 << 20

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	store   session.TokenStore
	http    *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates an HTTP client. The caller's http.Client is never mutated.
func NewClient(cfg Config, store session.TokenStore) *Client {
	if store == nil {
		store = session.NoopStore{}
	}

	var hc http.Client
	if cfg.HTTPClient != nil {
		hc = *cfg.HTTPClient
	} else {
		hc.Timeout = cfg.Timeout
		if hc.Timeout <= 0 {
			hc.Timeout = defaultTimeout
		}
	}
	if cfg.Tracing {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = otelhttp.NewTransport(base)
	}

	return &Client{
		baseURL: cfg.baseURL(),
		store:   store,
		http:    &hc,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// RequestOption customises a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	body    any
	headers http.Header
}

// WithBody sends v as the JSON request body.
func WithBody(v any) RequestOption {
	return func(o *requestOptions) { o.body = v }
}

// WithHeader adds a header that overrides the defaults on conflict.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(key, value)
	}
}

// Do performs one call and normalises the outcome into an Envelope. It
// never panics on transport failures and never returns a raw error.
func Do[T any](ctx context.Context, c *Client, method, path string, opts ...RequestOption) Envelope[T] {
	start := time.Now()
	endpoint := method + " " + obs.CanonicalPath(path)

	env, outcome := send[T](ctx, c, method, path, opts)

	obs.ObserveClientCall(endpoint, outcome, time.Since(start))
	if outcome != obs.OutcomeOK && outcome != obs.OutcomeRejected {
		obs.Error("api request failed", map[string]any{
			"endpoint": endpoint,
			"outcome":  outcome,
			"error":    env.Error,
		})
	}
	return env
}

func send[T any](ctx context.Context, c *Client, method, path string, opts []RequestOption) (Envelope[T], string) {
	if ctx == nil {
		ctx = context.Background()
	}
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	var body io.Reader
	if o.body != nil {
		payload, err := json.Marshal(o.body)
		if err != nil {
			return failure[T](fmt.Sprintf("encode request: %v", err)), obs.OutcomeTransport
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return failure[T](err.Error()), obs.OutcomeTransport
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.store.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range o.headers {
		req.Header[key] = append([]string(nil), values...)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return failure[T](err.Error()), obs.OutcomeTransport
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.store.Clear()
		obs.TokenCleared()
		return failure[T](MsgAuthRequired), obs.OutcomeUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return failure[T](fmt.Sprintf(httpErrorFormat, resp.StatusCode)), obs.OutcomeHTTPError
	}

	var env Envelope[T]
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		return failure[T](fmt.Sprintf("decode response: %v", err)), obs.OutcomeTransport
	}
	if !env.Success {
		return env, obs.OutcomeRejected
	}
	return env, obs.OutcomeOK
}
