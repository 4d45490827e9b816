package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prilive-com/onboardiq/gateway"
)

// BreakerNeverTrip returns a config whose breaker effectively never opens.
// Use for retry tests that need to verify retry behavior without breaker interference.
func BreakerNeverTrip(name string) gateway.Config {
	cfg := gateway.DefaultConfig(name)
	cfg.CircuitThreshold = 1 << 30
	cfg.CircuitCooldown = time.Hour
	cfg.BaseRetryDelay = 100 * time.Millisecond
	return cfg
}

// BreakerAggressiveTrip returns a config for testing breaker behavior.
// Trips after just 2 failures and makes a single attempt per call.
func BreakerAggressiveTrip(name string) gateway.Config {
	cfg := gateway.DefaultConfig(name)
	cfg.CircuitThreshold = 2
	cfg.CircuitCooldown = 2 * time.Second // Long enough to stay open during test assertions
	cfg.MaxAttempts = 1
	return cfg
}

// NewRetryTestGateway creates a gateway for testing retry behavior.
// Circuit breaker is configured to never trip.
func NewRetryTestGateway(t *testing.T, sleeper *FakeSleeper, opts ...gateway.Option) *gateway.Gateway {
	t.Helper()

	if sleeper != nil {
		opts = append([]gateway.Option{gateway.WithSleeper(sleeper)}, opts...)
	}
	return NewTestGatewayWithConfig(t, BreakerNeverTrip(t.Name()), opts...)
}

// NewBreakerTestGateway creates a gateway for testing circuit breaker behavior.
// Circuit breaker trips aggressively for fast testing.
func NewBreakerTestGateway(t *testing.T, opts ...gateway.Option) *gateway.Gateway {
	t.Helper()
	return NewTestGatewayWithConfig(t, BreakerAggressiveTrip(t.Name()), opts...)
}

// NewTestGateway creates a standard test gateway with a single attempt per call.
func NewTestGateway(t *testing.T, opts ...gateway.Option) *gateway.Gateway {
	t.Helper()

	cfg := gateway.DefaultConfig(t.Name())
	cfg.MaxAttempts = 1
	return NewTestGatewayWithConfig(t, cfg, opts...)
}

// NewTestGatewayWithConfig creates a gateway from cfg that is closed when the
// test completes.
func NewTestGatewayWithConfig(t *testing.T, cfg gateway.Config, opts ...gateway.Option) *gateway.Gateway {
	t.Helper()

	g, err := gateway.New(cfg, opts...)
	require.NoError(t, err)

	t.Cleanup(func() { g.Close() })
	return g
}
