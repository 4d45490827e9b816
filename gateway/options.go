package gateway

import (
	"log/slog"
	"time"

	"github.com/prilive-com/onboardiq/internal/resilience"
)

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithSleeper sets a custom sleeper for backoff timing (useful for testing).
func WithSleeper(s resilience.Sleeper) Option {
	return func(g *Gateway) {
		g.sleeper = s
	}
}

// CallOption configures a single Execute call.
type CallOption func(*callSettings)

type callSettings struct {
	useCache       bool
	cacheTTL       time.Duration
	maxAttempts    int
	backoff        resilience.Backoff
	attemptTimeout time.Duration
	rateKey        string
	rateNoWait     bool
}

// WithCache serves the call from the cache while a live entry exists and
// stores successful results for ttl. A zero ttl uses the gateway default.
func WithCache(ttl time.Duration) CallOption {
	return func(s *callSettings) {
		s.useCache = true
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) CallOption {
	return func(s *callSettings) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithoutRetry makes a single attempt. Use it for operations that are not
// safe to repeat.
func WithoutRetry() CallOption {
	return WithMaxAttempts(1)
}

// WithBaseRetryDelay sets the wait before the second attempt; later waits
// grow by the configured multiplier.
func WithBaseRetryDelay(d time.Duration) CallOption {
	return func(s *callSettings) {
		if d >= 0 {
			s.backoff.Base = d
		}
	}
}

// WithAttemptTimeout bounds each individual attempt.
func WithAttemptTimeout(d time.Duration) CallOption {
	return func(s *callSettings) {
		if d > 0 {
			s.attemptTimeout = d
		}
	}
}

// WithRateLimitKey applies the per-key client-side rate limit for key,
// e.g. one bucket per SMS recipient.
func WithRateLimitKey(key string) CallOption {
	return func(s *callSettings) {
		s.rateKey = key
	}
}

// WithRateLimitNoWait fails an attempt with ErrRateLimited when the
// client-side rate limit has no token left, instead of waiting for one.
// The remote side is not called and the breaker is not charged.
func WithRateLimitNoWait() CallOption {
	return func(s *callSettings) {
		s.rateNoWait = true
	}
}
