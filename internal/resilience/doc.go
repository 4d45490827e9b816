// Package resilience provides circuit breaker, backoff and rate limiting utilities.
// Uses sony/gobreaker for circuit breaking and golang.org/x/time/rate for rate limiting.
package resilience
