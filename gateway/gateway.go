package gateway

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/prilive-com/onboardiq/internal/resilience"
)

// Gateway guards calls to one remote dependency with a response cache,
// in-flight de-duplication, retries, a shared circuit breaker and per-attempt
// timeouts. A Gateway is safe for concurrent use.
type Gateway struct {
	config  Config
	logger  *slog.Logger
	sleeper resilience.Sleeper
	limiter *resilience.RateLimiter // nil when rate limiting is disabled

	cache   *responseCache
	flights singleflight.Group
	breaker *breaker

	closeOnce sync.Once
}

// Status is a combined breaker and cache snapshot.
type Status struct {
	Name    string        `json:"name" yaml:"name"`
	Breaker BreakerStatus `json:"breaker" yaml:"breaker"`
	Cache   CacheStats    `json:"cache" yaml:"cache"`

	// RateLimitKeys is the number of per-key rate limit buckets in use.
	RateLimitKeys int `json:"rate_limit_keys,omitempty" yaml:"rate_limit_keys,omitempty"`
}

// New creates a Gateway from cfg.
func New(cfg Config, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{config: cfg}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.sleeper == nil {
		g.sleeper = resilience.RealSleeper{}
	}

	if cfg.RateLimitRPS > 0 || cfg.KeyRateLimitRPS > 0 {
		g.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			GlobalRPS:   cfg.RateLimitRPS,
			GlobalBurst: cfg.RateLimitBurst,
			KeyRPS:      cfg.KeyRateLimitRPS,
			KeyBurst:    cfg.KeyRateLimitBurst,
		})
	}

	g.cache = newResponseCache(cfg.CacheTTL)
	g.breaker = newBreaker(cfg, g.logger)

	return g, nil
}

// NewDefault creates a Gateway with DefaultConfig(name).
func NewDefault(name string, opts ...Option) (*Gateway, error) {
	return New(DefaultConfig(name), opts...)
}

// Name returns the name of the guarded dependency.
func (g *Gateway) Name() string { return g.config.Name }

// Config returns the gateway configuration.
func (g *Gateway) Config() Config { return g.config }

// ClearCache drops every cached response.
func (g *Gateway) ClearCache() {
	g.cache.clear()
	g.logger.Debug("cache cleared", "gateway", g.config.Name)
}

// Invalidate drops the cached response for key, if any.
func (g *Gateway) Invalidate(key string) {
	g.cache.delete(key)
}

// CacheStats returns the live cache keys. Expired entries are swept first.
func (g *Gateway) CacheStats() CacheStats {
	return g.cache.stats()
}

// BreakerStatus returns a snapshot of the circuit breaker.
func (g *Gateway) BreakerStatus() BreakerStatus {
	return g.breaker.status()
}

// ResetBreaker closes the circuit breaker and clears its failure count.
func (g *Gateway) ResetBreaker() {
	g.breaker.reset()
}

// Status returns breaker and cache state together.
func (g *Gateway) Status() Status {
	st := Status{
		Name:    g.config.Name,
		Breaker: g.breaker.status(),
		Cache:   g.cache.stats(),
	}
	if g.limiter != nil {
		st.RateLimitKeys = g.limiter.Len()
	}
	return st
}

// Close releases background resources. In-flight calls complete normally.
// Close should be called only once; subsequent calls are no-ops.
func (g *Gateway) Close() error {
	g.closeOnce.Do(func() {
		g.cache.stop()
		if g.limiter != nil {
			g.limiter.Close()
		}
	})
	return nil
}

func (g *Gateway) settings(opts []CallOption) callSettings {
	s := callSettings{
		cacheTTL:    g.config.CacheTTL,
		maxAttempts: g.config.MaxAttempts,
		backoff: resilience.Backoff{
			Base:       g.config.BaseRetryDelay,
			Max:        g.config.MaxRetryDelay,
			Multiplier: g.config.RetryMultiplier,
			Jitter:     g.config.RetryJitter,
		},
		attemptTimeout: g.config.AttemptTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
