package resilience

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter provides global and per-key rate limiting.
type RateLimiter struct {
	global   *rate.Limiter
	perKey   map[string]*limiterEntry
	mu       sync.RWMutex
	keyRPS   float64
	keyBurst int
	maxKeys  int
	idleTTL  time.Duration

	cleanupTicker *time.Ticker
	cleanupDone   chan struct{}
	closeOnce     sync.Once
}

// limiterEntry tracks last use as UnixNano to keep the hot path lock-free.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64
}

// RateLimiterConfig holds rate limiter configuration.
type RateLimiterConfig struct {
	GlobalRPS   float64       // Global requests per second (0 = unlimited)
	GlobalBurst int           // Global burst size
	KeyRPS      float64       // Per-key requests per second (0 = unlimited)
	KeyBurst    int           // Per-key burst size
	MaxKeys     int           // Per-key limiter cap (0 = 10000)
	IdleTTL     time.Duration // Idle per-key limiters are dropped after this (0 = 10m)
}

// NewRateLimiter creates a new rate limiter and starts its cleanup goroutine.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		global:      newLimiter(cfg.GlobalRPS, cfg.GlobalBurst),
		perKey:      make(map[string]*limiterEntry),
		keyRPS:      cfg.KeyRPS,
		keyBurst:    cfg.KeyBurst,
		maxKeys:     cfg.MaxKeys,
		idleTTL:     cfg.IdleTTL,
		cleanupDone: make(chan struct{}),
	}
	if rl.maxKeys <= 0 {
		rl.maxKeys = 10000
	}
	if rl.idleTTL <= 0 {
		rl.idleTTL = 10 * time.Minute
	}

	rl.cleanupTicker = time.NewTicker(rl.idleTTL / 2)
	go rl.cleanup()

	return rl
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until both the global and the per-key limits allow.
// An empty key only waits on the global limit.
func (r *RateLimiter) Wait(ctx context.Context, key string) error {
	if err := r.global.Wait(ctx); err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	return r.getOrCreate(key).Wait(ctx)
}

// Allow returns true if the request is allowed without blocking.
func (r *RateLimiter) Allow(key string) bool {
	if !r.global.Allow() {
		return false
	}
	if key == "" {
		return true
	}
	return r.getOrCreate(key).Allow()
}

// Len returns the number of tracked per-key limiters.
func (r *RateLimiter) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.perKey)
}

// Sweep drops per-key limiters idle for longer than idle and returns how
// many were removed.
func (r *RateLimiter) Sweep(idle time.Duration) int {
	threshold := time.Now().Add(-idle).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, entry := range r.perKey {
		if entry.lastUsed.Load() < threshold {
			delete(r.perKey, key)
			removed++
		}
	}
	return removed
}

// Close stops the cleanup goroutine. Subsequent calls are no-ops.
func (r *RateLimiter) Close() {
	r.closeOnce.Do(func() {
		r.cleanupTicker.Stop()
		close(r.cleanupDone)
	})
}

func (r *RateLimiter) getOrCreate(key string) *rate.Limiter {
	now := time.Now().UnixNano()

	r.mu.RLock()
	entry, exists := r.perKey[key]
	r.mu.RUnlock()

	if exists {
		entry.lastUsed.Store(now)
		return entry.limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists = r.perKey[key]; exists {
		entry.lastUsed.Store(now)
		return entry.limiter
	}

	// Evict oldest if at capacity
	if len(r.perKey) >= r.maxKeys {
		var oldestKey string
		oldestTime := now
		for k, e := range r.perKey {
			if t := e.lastUsed.Load(); t <= oldestTime {
				oldestTime = t
				oldestKey = k
			}
		}
		if oldestKey != "" {
			delete(r.perKey, oldestKey)
		}
	}

	entry = &limiterEntry{limiter: newLimiter(r.keyRPS, r.keyBurst)}
	entry.lastUsed.Store(now)
	r.perKey[key] = entry
	return entry.limiter
}

func (r *RateLimiter) cleanup() {
	for {
		select {
		case <-r.cleanupTicker.C:
			r.Sweep(r.idleTTL)
		case <-r.cleanupDone:
			return
		}
	}
}
