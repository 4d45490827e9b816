package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operation is a remote call guarded by a Gateway. It should honour ctx,
// which carries the per-attempt deadline.
type Operation[T any] func(ctx context.Context) (T, error)

// Source tells where a result came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Result is a value together with its origin.
type Result[T any] struct {
	Value  T
	Source Source
	// Cause is the error that triggered a fallback, nil otherwise.
	Cause error
}

type requestIDKey struct{}

// RequestIDFromContext returns the correlation ID the gateway assigned to the
// current call, or "" outside a gateway call.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Execute runs op through g.
//
// With a non-empty key, concurrent calls for that key share a single run of
// op, and WithCache serves live cached results without calling op. The first
// caller's options govern a shared run. An empty key disables both caching
// and de-duplication.
//
// Cancelling ctx releases this caller only; a shared run keeps going for the
// other waiters.
func Execute[T any](ctx context.Context, g *Gateway, key string, op Operation[T], opts ...CallOption) (T, error) {
	r, err := ExecuteResult(ctx, g, key, op, opts...)
	return r.Value, err
}

// ExecuteResult is Execute that also reports whether the value was served
// from the cache.
func ExecuteResult[T any](ctx context.Context, g *Gateway, key string, op Operation[T], opts ...CallOption) (Result[T], error) {
	s := g.settings(opts)

	if key != "" && s.useCache {
		if v, ok := g.cache.get(key); ok {
			if tv, ok := cast[T](v); ok {
				g.logger.Debug("cache hit", "gateway", g.config.Name, "key", key)
				return Result[T]{Value: tv, Source: SourceCache}, nil
			}
		}
	}

	erased := func(ctx context.Context) (any, error) { return op(ctx) }

	if key == "" {
		v, err := g.run(ctx, key, s, erased)
		if err != nil {
			return Result[T]{}, err
		}
		return typed[T](key, flight{value: v, source: SourceLive})
	}

	ch := g.flights.DoChan(key, func() (any, error) {
		if s.useCache {
			if v, ok := g.cache.get(key); ok {
				if _, ok := cast[T](v); ok {
					return flight{value: v, source: SourceCache}, nil
				}
			}
		}
		v, err := g.run(context.WithoutCancel(ctx), key, s, erased)
		if err != nil {
			return nil, err
		}
		return flight{value: v, source: SourceLive}, nil
	})

	select {
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			g.logger.Debug("shared in-flight call", "gateway", g.config.Name, "key", key)
		}
		if res.Err != nil {
			return Result[T]{}, res.Err
		}
		return typed[T](key, res.Val.(flight))
	}
}

// ExecuteWithFallback runs op through g and, when the call fails, asks
// fallback for a substitute value. The substitute is never cached.
func ExecuteWithFallback[T any](
	ctx context.Context,
	g *Gateway,
	key string,
	op Operation[T],
	fallback func(ctx context.Context, cause error) (T, error),
	opts ...CallOption,
) (Result[T], error) {
	r, err := ExecuteResult(ctx, g, key, op, opts...)
	if err == nil || fallback == nil || ctx.Err() != nil {
		return r, err
	}

	v, fbErr := fallback(ctx, err)
	if fbErr != nil {
		return Result[T]{Cause: err}, fmt.Errorf("%w (fallback failed: %w)", err, fbErr)
	}

	g.logger.Warn("serving fallback",
		"gateway", g.config.Name,
		"key", key,
		"kind", KindOf(err).String(),
		"error", err,
	)
	return Result[T]{Value: v, Source: SourceFallback, Cause: err}, nil
}

type flight struct {
	value  any
	source Source
}

func cast[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, true
	}
	tv, ok := v.(T)
	return tv, ok
}

func typed[T any](key string, f flight) (Result[T], error) {
	tv, ok := cast[T](f.value)
	if !ok {
		var zero T
		return Result[T]{}, fmt.Errorf("%w: key %q holds %T, want %T", ErrTypeMismatch, key, f.value, zero)
	}
	return Result[T]{Value: tv, Source: f.source}, nil
}

// run makes up to s.maxAttempts attempts, backing off between retryable
// failures. It returns either a value, a *CallError annotated with the
// attempt count and elapsed time, or ctx's own error.
func (g *Gateway) run(ctx context.Context, key string, s callSettings, op Operation[any]) (any, error) {
	requestID := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, requestID)
	logger := g.logger.With("gateway", g.config.Name, "key", key, "request_id", requestID)
	start := time.Now()

	var lastErr *CallError
	attempts := 0

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		attempts = attempt

		if g.limiter != nil {
			if s.rateNoWait {
				if !g.limiter.Allow(s.rateKey) {
					lastErr = &CallError{Kind: KindRateLimited, Err: errLocalRateLimit}
					break
				}
			} else if err := g.limiter.Wait(ctx, s.rateKey); err != nil {
				return nil, err
			}
		}

		v, err := g.breaker.execute(func() (any, error) {
			return runAttempt(ctx, s.attemptTimeout, op)
		})
		if err == nil {
			if s.useCache && key != "" {
				g.cache.set(key, v, s.cacheTTL)
			}
			return v, nil
		}

		callErr, ok := err.(*CallError)
		if !ok {
			return nil, err
		}
		lastErr = callErr

		if !callErr.Retryable() || attempt == s.maxAttempts {
			break
		}

		wait := s.backoff.Delay(attempt, callErr.RetryAfter)
		logger.Warn("attempt failed, retrying",
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"kind", callErr.Kind.String(),
			"wait", wait,
			"error", callErr.Err,
		)

		if err := g.sleeper.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	lastErr.Key = key
	lastErr.Attempts = attempts
	lastErr.Elapsed = time.Since(start)

	logger.Error("call failed",
		"attempts", attempts,
		"kind", lastErr.Kind.String(),
		"elapsed", lastErr.Elapsed,
		"error", lastErr.Err,
	)
	return nil, lastErr
}

var errLocalRateLimit = errors.New("client-side rate limit exceeded")

type outcome struct {
	value any
	err   error
}

// runAttempt races op against the attempt deadline. A late result is
// dropped into the buffered channel and never observed.
func runAttempt(ctx context.Context, timeout time.Duration, op Operation[any]) (any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("operation panicked: %v", r)}
			}
		}()
		v, err := op(attemptCtx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err == nil {
			return o.value, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, timeoutError(timeout, o.err)
		}
		return nil, Classify(o.err)
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, timeoutError(timeout, nil)
	}
}
