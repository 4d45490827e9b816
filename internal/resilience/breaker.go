package resilience

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	Name      string
	Threshold uint32        // Failures before opening
	Cooldown  time.Duration // Time spent open before the half-open trial

	// ResetOnSuccess trips on consecutive failures instead of the running
	// total. With it unset, failures accumulate across successes until the
	// breaker opens or is reset.
	ResetOnSuccess bool

	// IsExcluded reports whether err should be ignored entirely, counting as
	// neither success nor failure. A half-open breaker stays half-open.
	IsExcluded func(err error) bool

	OnStateChange func(name string, from, to gobreaker.State)
}

// NewBreaker creates a new circuit breaker with the given configuration.
//
// The breaker admits exactly one request while half-open and never clears its
// counts on a timer while closed.
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.ResetOnSuccess {
				return counts.ConsecutiveFailures >= threshold
			}
			return counts.TotalFailures >= threshold
		},
		IsExcluded:    cfg.IsExcluded,
		OnStateChange: cfg.OnStateChange,
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// IsRejection reports whether err was produced by the breaker itself rather
// than by the guarded call.
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
