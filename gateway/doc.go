// Package gateway wraps calls to a remote dependency with caching,
// de-duplication, retries, a circuit breaker and per-attempt timeouts.
//
// # Basic Usage
//
//	gw, err := gateway.New(gateway.DefaultConfig("foxit"))
//	if err != nil {
//	    return err
//	}
//	defer gw.Close()
//
//	templates, err := gateway.Execute(ctx, gw, "templates",
//	    func(ctx context.Context) ([]Template, error) {
//	        return api.ListTemplates(ctx)
//	    },
//	    gateway.WithCache(10*time.Minute),
//	)
//
// # Keys
//
// The key is the identity of a call. Concurrent calls with the same key share
// one invocation of the operation and observe the same value or error. With
// WithCache, a successful result is served for the given TTL without calling
// the operation again. An empty key disables both.
//
// # Failures
//
// Every failure surfaces as a *CallError whose Kind tells transport failures,
// timeouts, authentication failures, missing resources, rate limiting and an
// open circuit apart:
//
//	_, err := gateway.Execute(ctx, gw, "", op)
//	switch {
//	case errors.Is(err, gateway.ErrCircuitOpen):
//	    // dependency is known to be down; fail fast
//	case errors.Is(err, gateway.ErrTimeout):
//	    // every attempt ran out of time
//	}
//
// Transport failures, timeouts and rate limiting are retried with exponential
// backoff; a server-suggested delay (StatusError.RetryAfter) replaces the
// computed one. Authentication, not-found and rejected requests are returned
// after the first attempt.
//
// # Circuit Breaker
//
// Each Gateway owns one breaker. Every failed attempt counts towards
// Config.CircuitThreshold; once reached, calls fail with ErrCircuitOpen
// without running the operation until Config.CircuitCooldown has passed. The
// next call is then let through as a trial: success closes the breaker,
// failure opens it again.
//
// By default failures accumulate across successes until the breaker opens or
// ResetBreaker is called. Set Config.ResetFailuresOnSuccess to count only
// consecutive failures.
package gateway
