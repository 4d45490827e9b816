package vonage

import (
	"time"

	"github.com/prilive-com/onboardiq/internal/validate"
)

// Config holds communications API client configuration.
type Config struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	APIKey    string `mapstructure:"api_key" yaml:"-" json:"-"`
	APISecret string `mapstructure:"api_secret" yaml:"-" json:"-"`

	// Brand names the sender in verification messages.
	Brand string `mapstructure:"brand" yaml:"brand" json:"brand"`
	// SMSFrom is the default sender for SMS.
	SMSFrom string `mapstructure:"sms_from" yaml:"sms_from" json:"sms_from"`

	// MockMode serves generated responses when the API cannot be reached.
	// It is implied when APIKey is empty.
	MockMode bool   `mapstructure:"mock_mode" yaml:"mock_mode" json:"mock_mode"`
	MockSeed uint64 `mapstructure:"mock_seed" yaml:"mock_seed" json:"mock_seed"`

	// Verification polling
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" json:"poll_interval"`
	PollMaxAttempts int           `mapstructure:"poll_max_attempts" yaml:"poll_max_attempts" json:"poll_max_attempts"`

	// BulkConcurrency bounds parallel sends in SendBulkSMS.
	BulkConcurrency int `mapstructure:"bulk_concurrency" yaml:"bulk_concurrency" json:"bulk_concurrency"`
}

// DefaultConfig returns a Config pointing at the local API proxy.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:3001/api/vonage",
		Brand:           "OnboardIQ",
		SMSFrom:         "OnboardIQ",
		MockSeed:        1,
		PollInterval:    5 * time.Second,
		PollMaxAttempts: 60,
		BulkConcurrency: 4,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.URL("vonage.base_url", c.BaseURL); err != nil {
		return err
	}
	if err := validate.Required("vonage.brand", c.Brand); err != nil {
		return err
	}
	if err := validate.MaxLength("vonage.brand", c.Brand, 18); err != nil {
		return err
	}
	if err := validate.Required("vonage.sms_from", c.SMSFrom); err != nil {
		return err
	}
	if err := validate.Positive("vonage.poll_max_attempts", c.PollMaxAttempts); err != nil {
		return err
	}
	if c.PollInterval <= 0 {
		return validate.New("vonage.poll_interval", "must be positive")
	}
	return validate.InRange("vonage.bulk_concurrency", c.BulkConcurrency, 1, 64)
}

// MockEnabled reports whether failed calls fall back to generated data.
func (c Config) MockEnabled() bool {
	return c.MockMode || c.APIKey == ""
}
