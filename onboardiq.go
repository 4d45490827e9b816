package onboardiq

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prilive-com/onboardiq/foxit"
	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/resilience"
	"github.com/prilive-com/onboardiq/mockdata"
	"github.com/prilive-com/onboardiq/vonage"
)

// Services bundles the vendor clients, each behind its own gateway.
type Services struct {
	logger *slog.Logger

	foxitGW  *gateway.Gateway
	vonageGW *gateway.Gateway
	foxit    *foxit.Client
	vonage   *vonage.Client

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	sleeper    resilience.Sleeper
	mock       *mockdata.Generator
}

// Option configures Services.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient sets the HTTP client shared by both vendor clients.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithSleeper sets the sleeper used for retry backoff and polling
// (useful for testing).
func WithSleeper(s resilience.Sleeper) Option {
	return func(o *options) {
		o.sleeper = s
	}
}

// WithMockData sets the generator used for mock-mode fallbacks.
func WithMockData(g *mockdata.Generator) Option {
	return func(o *options) {
		o.mock = g
	}
}

// New creates the gateways and vendor clients described by cfg.
func New(cfg Config, opts ...Option) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	gwOpts := []gateway.Option{gateway.WithLogger(o.logger)}
	if o.sleeper != nil {
		gwOpts = append(gwOpts, gateway.WithSleeper(o.sleeper))
	}

	foxitGW, err := gateway.New(cfg.Gateways.Foxit, gwOpts...)
	if err != nil {
		return nil, err
	}
	vonageGW, err := gateway.New(cfg.Gateways.Vonage, gwOpts...)
	if err != nil {
		_ = foxitGW.Close()
		return nil, err
	}

	s := &Services{logger: o.logger, foxitGW: foxitGW, vonageGW: vonageGW}

	foxitOpts := []foxit.Option{foxit.WithLogger(o.logger.With("vendor", "foxit"))}
	vonageOpts := []vonage.Option{vonage.WithLogger(o.logger.With("vendor", "vonage"))}
	if o.httpClient != nil {
		foxitOpts = append(foxitOpts, foxit.WithHTTPClient(o.httpClient))
		vonageOpts = append(vonageOpts, vonage.WithHTTPClient(o.httpClient))
	}
	if o.sleeper != nil {
		foxitOpts = append(foxitOpts, foxit.WithSleeper(o.sleeper))
		vonageOpts = append(vonageOpts, vonage.WithSleeper(o.sleeper))
	}
	if o.mock != nil {
		foxitOpts = append(foxitOpts, foxit.WithMockData(o.mock))
		vonageOpts = append(vonageOpts, vonage.WithMockData(o.mock))
	}

	if s.foxit, err = foxit.New(cfg.Foxit, foxitGW, foxitOpts...); err != nil {
		_ = s.Close()
		return nil, err
	}
	if s.vonage, err = vonage.New(cfg.Vonage, vonageGW, vonageOpts...); err != nil {
		_ = s.Close()
		return nil, err
	}

	o.logger.Debug("services ready",
		"foxit_mock", cfg.Foxit.MockEnabled(),
		"vonage_mock", cfg.Vonage.MockEnabled(),
	)
	return s, nil
}

// Foxit returns the document API client.
func (s *Services) Foxit() *foxit.Client { return s.foxit }

// Vonage returns the communications API client.
func (s *Services) Vonage() *vonage.Client { return s.vonage }

// Gateways returns the gateways in a fixed order: foxit, vonage.
func (s *Services) Gateways() []*gateway.Gateway {
	return []*gateway.Gateway{s.foxitGW, s.vonageGW}
}

// Status returns breaker and cache state per vendor.
func (s *Services) Status() []gateway.Status {
	gws := s.Gateways()
	out := make([]gateway.Status, len(gws))
	for i, gw := range gws {
		out[i] = gw.Status()
	}
	return out
}

// ResetAll closes every circuit breaker and drops every cached response.
func (s *Services) ResetAll() {
	for _, gw := range s.Gateways() {
		gw.ResetBreaker()
		gw.ClearCache()
	}
	s.logger.Info("all gateways reset")
}

// VendorHealth is the outcome of probing one vendor.
type VendorHealth struct {
	Name         string        `json:"name" yaml:"name"`
	Healthy      bool          `json:"healthy" yaml:"healthy"`
	ResponseTime time.Duration `json:"response_time" yaml:"response_time"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// CheckHealth checks both vendors concurrently, bypassing the cache.
func (s *Services) CheckHealth(ctx context.Context) []VendorHealth {
	out := make([]VendorHealth, 2)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		conn := s.foxit.Ping(ctx)
		out[0] = VendorHealth{Name: s.foxitGW.Name(), Healthy: conn.Connected, ResponseTime: conn.ResponseTime}
		if !conn.Connected {
			out[0].Error = "unreachable"
		}
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		s.vonageGW.Invalidate("health")
		_, err := s.vonage.Health(ctx)
		out[1] = VendorHealth{Name: s.vonageGW.Name(), Healthy: err == nil, ResponseTime: time.Since(start)}
		if err != nil {
			out[1].Error = err.Error()
		}
		return nil
	})
	_ = g.Wait()

	return out
}

// Close releases both gateways. It is safe to call more than once.
func (s *Services) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.foxitGW.Close(), s.vonageGW.Close())
	})
	return s.closeErr
}
