package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/testutil"
)

func breakerConfig(name string, threshold uint32, cooldown time.Duration) gateway.Config {
	cfg := gateway.DefaultConfig(name)
	cfg.CircuitThreshold = threshold
	cfg.CircuitCooldown = cooldown
	cfg.MaxAttempts = 1
	return cfg
}

func alwaysFail(calls *atomic.Int32) gateway.Operation[string] {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", gateway.NewStatusError(503, "unavailable")
	}
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	g := testutil.NewTestGatewayWithConfig(t, breakerConfig(t.Name(), 3, time.Minute))
	var calls atomic.Int32
	ctx := context.Background()

	for range 3 {
		_, err := gateway.Execute(ctx, g, "", alwaysFail(&calls))
		assert.ErrorIs(t, err, gateway.ErrTransport)
	}

	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateOpen, status.State)
	assert.Equal(t, 3, status.FailureCount)
	assert.False(t, status.LastFailureAt.IsZero())

	_, err := gateway.Execute(ctx, g, "", alwaysFail(&calls))

	assert.ErrorIs(t, err, gateway.ErrCircuitOpen)
	assert.Equal(t, int32(3), calls.Load(), "open breaker must not invoke the operation")
}

func TestBreaker_RetriesCountAsFailures(t *testing.T) {
	cfg := breakerConfig(t.Name(), 2, time.Minute)
	cfg.MaxAttempts = 3
	sleeper := &testutil.FakeSleeper{}
	g := testutil.NewTestGatewayWithConfig(t, cfg, gateway.WithSleeper(sleeper))
	var calls atomic.Int32

	_, err := gateway.Execute(context.Background(), g, "", alwaysFail(&calls))

	assert.ErrorIs(t, err, gateway.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())

	var callErr *gateway.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 3, callErr.Attempts)
}

func TestBreaker_CumulativeFailuresByDefault(t *testing.T) {
	g := testutil.NewTestGatewayWithConfig(t, breakerConfig(t.Name(), 3, time.Minute))
	var calls atomic.Int32
	ok, _ := counting("ok")
	ctx := context.Background()

	for range 3 {
		_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
		_, _ = gateway.Execute(ctx, g, "", ok)
	}

	assert.Equal(t, gateway.StateOpen, g.BreakerStatus().State)
}

func TestBreaker_ResetFailuresOnSuccess(t *testing.T) {
	cfg := breakerConfig(t.Name(), 3, time.Minute)
	cfg.ResetFailuresOnSuccess = true
	g := testutil.NewTestGatewayWithConfig(t, cfg)
	var calls atomic.Int32
	ok, _ := counting("ok")
	ctx := context.Background()

	for range 3 {
		_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
		_, err := gateway.Execute(ctx, g, "", ok)
		require.NoError(t, err)
	}

	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateClosed, status.State)
	assert.Equal(t, 0, status.FailureCount)
}

func TestBreaker_RecoversAfterCooldown(t *testing.T) {
	g := testutil.NewTestGatewayWithConfig(t, breakerConfig(t.Name(), 2, 100*time.Millisecond))
	var calls atomic.Int32
	ctx := context.Background()

	for range 2 {
		_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	}
	require.Equal(t, gateway.StateOpen, g.BreakerStatus().State)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, gateway.StateHalfOpen, g.BreakerStatus().State)

	op, trial := counting("back")
	v, err := gateway.Execute(ctx, g, "", op)

	require.NoError(t, err)
	assert.Equal(t, "back", v)
	assert.Equal(t, int32(1), trial.Load())

	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateClosed, status.State)
	assert.Equal(t, 0, status.FailureCount)
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	g := testutil.NewTestGatewayWithConfig(t, breakerConfig(t.Name(), 2, 100*time.Millisecond))
	var calls atomic.Int32
	ctx := context.Background()

	for range 2 {
		_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	}
	time.Sleep(150 * time.Millisecond)

	_, err := gateway.Execute(ctx, g, "", alwaysFail(&calls))
	assert.ErrorIs(t, err, gateway.ErrTransport)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, gateway.StateOpen, g.BreakerStatus().State)

	_, err = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	assert.ErrorIs(t, err, gateway.ErrCircuitOpen)
	assert.Equal(t, int32(3), calls.Load())
}

func TestBreaker_Reset(t *testing.T) {
	g := testutil.NewBreakerTestGateway(t)
	var calls atomic.Int32
	ctx := context.Background()

	for range 2 {
		_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	}
	require.Equal(t, gateway.StateOpen, g.BreakerStatus().State)

	g.ResetBreaker()

	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateClosed, status.State)
	assert.Equal(t, 0, status.FailureCount)
	assert.True(t, status.LastFailureAt.IsZero())

	op, invoked := counting("ok")
	_, err := gateway.Execute(ctx, g, "", op)
	require.NoError(t, err)
	assert.Equal(t, int32(1), invoked.Load())
}

func TestBreaker_ResetWhenClosedIsNoop(t *testing.T) {
	g := testutil.NewBreakerTestGateway(t)

	g.ResetBreaker()

	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateClosed, status.State)
	assert.Equal(t, 0, status.FailureCount)
}

func TestBreaker_CacheServedWhileOpen(t *testing.T) {
	g := testutil.NewBreakerTestGateway(t)
	var calls atomic.Int32
	ctx := context.Background()

	op, _ := counting([]string{"tpl_1"})
	_, err := gateway.Execute(ctx, g, "templates", op, gateway.WithCache(time.Minute))
	require.NoError(t, err)

	for range 2 {
		_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	}
	require.Equal(t, gateway.StateOpen, g.BreakerStatus().State)

	v, err := gateway.Execute(ctx, g, "templates", op, gateway.WithCache(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"tpl_1"}, v)
}

func TestBreaker_NonRetryableFailuresCount(t *testing.T) {
	g := testutil.NewBreakerTestGateway(t)
	ctx := context.Background()

	op := func(ctx context.Context) (string, error) {
		return "", gateway.NewStatusError(401, "invalid key")
	}
	for range 2 {
		_, err := gateway.Execute(ctx, g, "", op)
		assert.ErrorIs(t, err, gateway.ErrAuth)
	}

	assert.Equal(t, gateway.StateOpen, g.BreakerStatus().State)
}

func TestBreaker_CallerCancellationNotCounted(t *testing.T) {
	g := testutil.NewBreakerTestGateway(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	op := func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := gateway.Execute(ctx, g, "", op)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, g.BreakerStatus().FailureCount)
}

func TestBreaker_StatusJSON(t *testing.T) {
	g := testutil.NewBreakerTestGateway(t)
	var calls atomic.Int32

	for range 2 {
		_, _ = gateway.Execute(context.Background(), g, "", alwaysFail(&calls))
	}

	data, err := json.Marshal(g.BreakerStatus())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "open", decoded["state"])
	assert.Equal(t, float64(2), decoded["failure_count"])
	assert.Equal(t, float64(2), decoded["threshold"])
}

func TestBreaker_LogsStateChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g := testutil.NewBreakerTestGateway(t, gateway.WithLogger(logger))
	var calls atomic.Int32

	for range 2 {
		_, _ = gateway.Execute(context.Background(), g, "", alwaysFail(&calls))
	}

	assert.Contains(t, buf.String(), "circuit breaker state changed")
	assert.Contains(t, buf.String(), `"to":"open"`)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", gateway.StateClosed.String())
	assert.Equal(t, "half-open", gateway.StateHalfOpen.String())
	assert.Equal(t, "open", gateway.StateOpen.String())
	assert.Equal(t, "unknown", gateway.State(99).String())
}

func TestBreaker_RejectionIsCallError(t *testing.T) {
	g := testutil.NewBreakerTestGateway(t)
	var calls atomic.Int32

	for range 3 {
		_, _ = gateway.Execute(context.Background(), g, "", alwaysFail(&calls))
	}
	_, err := gateway.Execute(context.Background(), g, "health", alwaysFail(&calls))

	var callErr *gateway.CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, gateway.KindCircuitOpen, callErr.Kind)
	assert.Equal(t, "health", callErr.Key)
	assert.False(t, callErr.Retryable())
}

func blockUntilDone(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestBreaker_CancelledTrialKeepsHalfOpen(t *testing.T) {
	g := testutil.NewTestGatewayWithConfig(t, breakerConfig(t.Name(), 2, 50*time.Millisecond))
	var calls atomic.Int32

	for range 2 {
		_, _ = gateway.Execute(context.Background(), g, "", alwaysFail(&calls))
	}
	require.Equal(t, gateway.StateOpen, g.BreakerStatus().State)
	time.Sleep(80 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := gateway.Execute(ctx, g, "", blockUntilDone)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateHalfOpen, status.State, "an abandoned trial must not close the breaker")
	assert.Equal(t, 2, status.FailureCount)

	op, trial := counting("back")
	_, err = gateway.Execute(context.Background(), g, "", op)
	require.NoError(t, err)
	assert.Equal(t, int32(1), trial.Load())
	assert.Equal(t, gateway.StateClosed, g.BreakerStatus().State)
}

func TestBreaker_CancelledCallKeepsConsecutiveCount(t *testing.T) {
	cfg := breakerConfig(t.Name(), 2, time.Minute)
	cfg.ResetFailuresOnSuccess = true
	g := testutil.NewTestGatewayWithConfig(t, cfg)
	var calls atomic.Int32

	_, _ = gateway.Execute(context.Background(), g, "", alwaysFail(&calls))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := gateway.Execute(ctx, g, "", blockUntilDone)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, g.BreakerStatus().FailureCount)

	_, _ = gateway.Execute(context.Background(), g, "", alwaysFail(&calls))

	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateOpen, status.State)
	assert.Equal(t, 2, status.FailureCount)
}

func TestBreaker_HalfOpenAdmitsSingleTrial(t *testing.T) {
	g := testutil.NewTestGatewayWithConfig(t, breakerConfig(t.Name(), 2, 50*time.Millisecond))
	var calls atomic.Int32

	for range 2 {
		_, _ = gateway.Execute(context.Background(), g, "", alwaysFail(&calls))
	}
	time.Sleep(80 * time.Millisecond)

	started := make(chan struct{})
	release := make(chan struct{})
	var trials atomic.Int32
	trial := func(ctx context.Context) (string, error) {
		trials.Add(1)
		close(started)
		<-release
		return "ok", nil
	}

	var wg sync.WaitGroup
	var trialErr error
	wg.Go(func() {
		_, trialErr = gateway.Execute(context.Background(), g, "", trial)
	})
	<-started

	others, invoked := counting("late")
	var rejected atomic.Int32
	for range 4 {
		wg.Go(func() {
			_, err := gateway.Execute(context.Background(), g, "", others)
			if errors.Is(err, gateway.ErrCircuitOpen) {
				rejected.Add(1)
			}
		})
	}
	assert.Eventually(t, func() bool {
		return rejected.Load()+invoked.Load() >= 4
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, trialErr)
	assert.Equal(t, int32(1), trials.Load())
	assert.Zero(t, invoked.Load())
	assert.Equal(t, int32(4), rejected.Load())
	assert.Equal(t, gateway.StateClosed, g.BreakerStatus().State)
}

func TestBreaker_RecoveredBreakerNeedsFullThreshold(t *testing.T) {
	g := testutil.NewTestGatewayWithConfig(t, breakerConfig(t.Name(), 2, 50*time.Millisecond))
	var calls atomic.Int32
	ctx := context.Background()

	for range 2 {
		_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	}
	time.Sleep(80 * time.Millisecond)

	op, _ := counting("back")
	_, err := gateway.Execute(ctx, g, "", op)
	require.NoError(t, err)
	require.Equal(t, gateway.StateClosed, g.BreakerStatus().State)

	_, err = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	assert.ErrorIs(t, err, gateway.ErrTransport)
	status := g.BreakerStatus()
	assert.Equal(t, gateway.StateClosed, status.State)
	assert.Equal(t, 1, status.FailureCount)

	_, _ = gateway.Execute(ctx, g, "", alwaysFail(&calls))
	assert.Equal(t, gateway.StateOpen, g.BreakerStatus().State)
	assert.Equal(t, int32(4), calls.Load())
}
