package foxit

import (
	"time"

	"github.com/prilive-com/onboardiq/internal/validate"
)

// Config holds document API client configuration.
type Config struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	APIKey  string `mapstructure:"api_key" yaml:"-" json:"-"`

	// MockMode serves generated documents when the API cannot be reached.
	// It is implied when APIKey is empty.
	MockMode bool   `mapstructure:"mock_mode" yaml:"mock_mode" json:"mock_mode"`
	MockSeed uint64 `mapstructure:"mock_seed" yaml:"mock_seed" json:"mock_seed"`

	// Job polling
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" json:"poll_interval"`
	PollMaxAttempts int           `mapstructure:"poll_max_attempts" yaml:"poll_max_attempts" json:"poll_max_attempts"`

	// BatchConcurrency bounds parallel generations in BatchGenerate.
	BatchConcurrency int `mapstructure:"batch_concurrency" yaml:"batch_concurrency" json:"batch_concurrency"`
}

// DefaultConfig returns a Config pointing at the local API proxy.
func DefaultConfig() Config {
	return Config{
		BaseURL:          "http://localhost:3001/api/foxit",
		MockSeed:         1,
		PollInterval:     5 * time.Second,
		PollMaxAttempts:  60,
		BatchConcurrency: 4,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.URL("foxit.base_url", c.BaseURL); err != nil {
		return err
	}
	if err := validate.Positive("foxit.poll_max_attempts", c.PollMaxAttempts); err != nil {
		return err
	}
	if c.PollInterval <= 0 {
		return validate.New("foxit.poll_interval", "must be positive")
	}
	return validate.InRange("foxit.batch_concurrency", c.BatchConcurrency, 1, 64)
}

// MockEnabled reports whether failed calls fall back to generated data.
func (c Config) MockEnabled() bool {
	return c.MockMode || c.APIKey == ""
}
