package gateway

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/prilive-com/onboardiq/internal/resilience"
)

// State is the circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	case gobreaker.StateOpen:
		return StateOpen
	default:
		return StateClosed
	}
}

// BreakerStatus is a snapshot of the shared circuit breaker.
type BreakerStatus struct {
	Name          string        `json:"name" yaml:"name"`
	State         State         `json:"state" yaml:"state"`
	FailureCount  int           `json:"failure_count" yaml:"failure_count"`
	LastFailureAt time.Time     `json:"last_failure_at" yaml:"last_failure_at"`
	Threshold     int           `json:"threshold" yaml:"threshold"`
	Cooldown      time.Duration `json:"cooldown" yaml:"cooldown"`
}

// breaker wraps a gobreaker instance and keeps the failure bookkeeping that
// gobreaker clears on every state change.
type breaker struct {
	cfg    resilience.BreakerConfig
	logger *slog.Logger
	cb     atomic.Pointer[gobreaker.CircuitBreaker[any]]

	mu            sync.Mutex
	failures      int
	lastFailureAt time.Time
}

func newBreaker(cfg Config, logger *slog.Logger) *breaker {
	b := &breaker{
		cfg: resilience.BreakerConfig{
			Name:           cfg.Name,
			Threshold:      cfg.CircuitThreshold,
			Cooldown:       cfg.CircuitCooldown,
			ResetOnSuccess: cfg.ResetFailuresOnSuccess,
			IsExcluded:     isBreakerExcluded,
		},
		logger: logger,
	}
	b.cb.Store(b.build())
	return b
}

func (b *breaker) build() *gobreaker.CircuitBreaker[any] {
	var cb *gobreaker.CircuitBreaker[any]

	cfg := b.cfg
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		b.logger.Info("circuit breaker state changed",
			"name", name,
			"from", from.String(),
			"to", to.String(),
		)
		if to == gobreaker.StateClosed && b.cb.Load() == cb {
			b.mu.Lock()
			b.failures = 0
			b.mu.Unlock()
		}
	}

	cb = resilience.NewBreaker[any](cfg)
	return cb
}

// execute runs fn through the breaker. A rejected call comes back as a
// KindCircuitOpen CallError without fn being invoked.
func (b *breaker) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Load().Execute(fn)
	if err != nil {
		if resilience.IsRejection(err) {
			return nil, &CallError{Kind: KindCircuitOpen, Err: err}
		}
		if !isBreakerExcluded(err) {
			b.mu.Lock()
			b.failures++
			b.lastFailureAt = time.Now()
			b.mu.Unlock()
		}
		return nil, err
	}

	if b.cfg.ResetOnSuccess {
		b.mu.Lock()
		b.failures = 0
		b.mu.Unlock()
	}
	return v, nil
}

func (b *breaker) status() BreakerStatus {
	// Read the state first: gobreaker may fire OnStateChange, which locks b.mu.
	state := fromGobreaker(b.cb.Load().State())

	b.mu.Lock()
	defer b.mu.Unlock()

	return BreakerStatus{
		Name:          b.cfg.Name,
		State:         state,
		FailureCount:  b.failures,
		LastFailureAt: b.lastFailureAt,
		Threshold:     int(b.cfg.Threshold),
		Cooldown:      b.cfg.Cooldown,
	}
}

func (b *breaker) reset() {
	b.cb.Store(b.build())

	b.mu.Lock()
	b.failures = 0
	b.lastFailureAt = time.Time{}
	b.mu.Unlock()

	b.logger.Info("circuit breaker reset", "name", b.cfg.Name)
}

// isBreakerExcluded reports whether err is ignored by the breaker. Every
// failed attempt is a CallError; anything else is the caller's own context
// ending, which says nothing about the remote side and must neither close a
// half-open breaker nor reset the consecutive failure count.
func isBreakerExcluded(err error) bool {
	if err == nil {
		return false
	}
	_, failed := err.(*CallError)
	return !failed
}
