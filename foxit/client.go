package foxit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/httpclient"
	"github.com/prilive-com/onboardiq/internal/resilience"
	"github.com/prilive-com/onboardiq/internal/scrub"
	"github.com/prilive-com/onboardiq/mockdata"
)

// APIVersion is sent with every request.
const APIVersion = "v2"

// ErrPollTimeout is returned by PollJob when the job does not finish in time.
var ErrPollTimeout = errors.New("foxit: job polling timed out")

// Client calls the document generation API through a gateway.
type Client struct {
	config     Config
	gw         *gateway.Gateway
	httpClient *http.Client
	logger     *slog.Logger
	sleeper    resilience.Sleeper
	mock       *mockdata.Generator
	now        func() time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSleeper sets the sleeper used between job polls (useful for testing).
func WithSleeper(s resilience.Sleeper) Option {
	return func(c *Client) {
		c.sleeper = s
	}
}

// WithClock sets the time source used for generated dates.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithMockData sets the generator used for mock-mode fallbacks.
func WithMockData(g *mockdata.Generator) Option {
	return func(c *Client) {
		c.mock = g
	}
}

// New creates a Client that routes every call through gw.
func New(cfg Config, gw *gateway.Gateway, opts ...Option) (*Client, error) {
	if gw == nil {
		return nil, errors.New("foxit: gateway is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg, gw: gw}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = httpclient.NewDefault()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.sleeper == nil {
		c.sleeper = resilience.RealSleeper{}
	}
	if c.mock == nil {
		c.mock = mockdata.New(cfg.MockSeed)
	}
	if c.now == nil {
		c.now = time.Now
	}

	return c, nil
}

// Gateway returns the gateway guarding this client.
func (c *Client) Gateway() *gateway.Gateway { return c.gw }

// MockEnabled reports whether failed calls fall back to generated data.
func (c *Client) MockEnabled() bool { return c.config.MockEnabled() }

// do performs one HTTP exchange. It is the operation the gateway retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := httpclient.NewJSONRequest(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return gateway.Permanent(err)
	}

	requestID := gateway.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("X-API-Version", APIVersion)
	req.Header.Set("X-Request-ID", requestID)

	err = httpclient.DoJSON(ctx, c.httpClient, req, out)
	return scrub.SecretFromError(err, c.config.APIKey)
}

// call runs op through the gateway. In mock mode a failure is answered by
// mock instead, when one is given.
func call[T any](ctx context.Context, c *Client, key string, op gateway.Operation[T], mock func() T, opts ...gateway.CallOption) (T, error) {
	if mock == nil || !c.config.MockEnabled() {
		return gateway.Execute(ctx, c.gw, key, op, opts...)
	}

	r, err := gateway.ExecuteWithFallback(ctx, c.gw, key, op,
		func(ctx context.Context, cause error) (T, error) {
			return mock(), nil
		}, opts...)
	return r.Value, err
}
