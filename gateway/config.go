package gateway

import (
	"fmt"
	"time"
)

// Config holds gateway configuration. One Config describes one remote
// dependency; the circuit breaker and rate limits are shared by every call
// made through the resulting Gateway.
type Config struct {
	// Name identifies the remote dependency in logs and breaker status.
	Name string `mapstructure:"name" yaml:"name" json:"name"`

	// Cache
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"`

	// Retry settings
	MaxAttempts     int           `mapstructure:"max_attempts" yaml:"max_attempts" json:"max_attempts"`
	BaseRetryDelay  time.Duration `mapstructure:"base_retry_delay" yaml:"base_retry_delay" json:"base_retry_delay"`
	MaxRetryDelay   time.Duration `mapstructure:"max_retry_delay" yaml:"max_retry_delay" json:"max_retry_delay"`
	RetryMultiplier float64       `mapstructure:"retry_multiplier" yaml:"retry_multiplier" json:"retry_multiplier"`
	RetryJitter     float64       `mapstructure:"retry_jitter" yaml:"retry_jitter" json:"retry_jitter"`
	AttemptTimeout  time.Duration `mapstructure:"attempt_timeout" yaml:"attempt_timeout" json:"attempt_timeout"`

	// Circuit breaker
	CircuitThreshold       uint32        `mapstructure:"circuit_threshold" yaml:"circuit_threshold" json:"circuit_threshold"`
	CircuitCooldown        time.Duration `mapstructure:"circuit_cooldown" yaml:"circuit_cooldown" json:"circuit_cooldown"`
	ResetFailuresOnSuccess bool          `mapstructure:"reset_failures_on_success" yaml:"reset_failures_on_success" json:"reset_failures_on_success"`

	// Client-side rate limiting (0 = disabled)
	RateLimitRPS      float64 `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst    int     `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst" json:"rate_limit_burst"`
	KeyRateLimitRPS   float64 `mapstructure:"key_rate_limit_rps" yaml:"key_rate_limit_rps" json:"key_rate_limit_rps"`
	KeyRateLimitBurst int     `mapstructure:"key_rate_limit_burst" yaml:"key_rate_limit_burst" json:"key_rate_limit_burst"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		CacheTTL:         5 * time.Minute,
		MaxAttempts:      3,
		BaseRetryDelay:   time.Second,
		MaxRetryDelay:    30 * time.Second,
		RetryMultiplier:  2.0,
		AttemptTimeout:   30 * time.Second,
		CircuitThreshold: 5,
		CircuitCooldown:  60 * time.Second,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return newConfigError("name", "cannot be empty")
	case c.MaxAttempts < 1:
		return newConfigError("max_attempts", fmt.Sprintf("must be at least 1, got %d", c.MaxAttempts))
	case c.BaseRetryDelay < 0:
		return newConfigError("base_retry_delay", "cannot be negative")
	case c.MaxRetryDelay < 0:
		return newConfigError("max_retry_delay", "cannot be negative")
	case c.RetryMultiplier < 1:
		return newConfigError("retry_multiplier", fmt.Sprintf("must be at least 1, got %g", c.RetryMultiplier))
	case c.RetryJitter < 0 || c.RetryJitter > 1:
		return newConfigError("retry_jitter", fmt.Sprintf("must be between 0 and 1, got %g", c.RetryJitter))
	case c.AttemptTimeout <= 0:
		return newConfigError("attempt_timeout", "must be positive")
	case c.CacheTTL <= 0:
		return newConfigError("cache_ttl", "must be positive")
	case c.CircuitThreshold == 0:
		return newConfigError("circuit_threshold", "must be positive")
	case c.CircuitCooldown <= 0:
		return newConfigError("circuit_cooldown", "must be positive")
	case c.RateLimitRPS < 0 || c.KeyRateLimitRPS < 0:
		return newConfigError("rate_limit_rps", "cannot be negative")
	}
	return nil
}
