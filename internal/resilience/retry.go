package resilience

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"time"
)

// Backoff computes the wait between attempts.
type Backoff struct {
	Base       time.Duration // Wait before the second attempt
	Max        time.Duration // Upper bound for a single wait (0 = unbounded)
	Multiplier float64       // Growth factor (2.0 for exponential)
	Jitter     float64       // Jitter factor (0.0-1.0)
}

// Delay returns the wait after the given failed attempt (1-based).
// A positive retryAfter from the remote side takes precedence, still
// bounded by Max.
func (b Backoff) Delay(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		if b.Max > 0 && retryAfter > b.Max {
			return b.Max
		}
		return retryAfter
	}
	if attempt < 1 {
		attempt = 1
	}

	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	wait := float64(b.Base) * math.Pow(multiplier, float64(attempt-1))
	if b.Max > 0 && wait > float64(b.Max) {
		wait = float64(b.Max)
	}

	// Apply jitter using crypto/rand
	if b.Jitter > 0 {
		jitterRange := int64(wait * b.Jitter)
		if jitterRange > 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(jitterRange*2))
			if err == nil {
				wait += float64(n.Int64() - jitterRange)
			}
		}
	}

	return time.Duration(wait)
}

// Sleeper abstracts time-based waiting for testing.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper uses actual time.
type RealSleeper struct{}

// Sleep waits for d or until ctx is done.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ Sleeper = RealSleeper{}
