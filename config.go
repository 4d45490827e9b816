package onboardiq

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prilive-com/onboardiq/foxit"
	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/vonage"
)

// Config is the complete service configuration.
type Config struct {
	Foxit    foxit.Config   `mapstructure:"foxit" yaml:"foxit" json:"foxit"`
	Vonage   vonage.Config  `mapstructure:"vonage" yaml:"vonage" json:"vonage"`
	Gateways GatewayConfigs `mapstructure:"gateways" yaml:"gateways" json:"gateways"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

// GatewayConfigs holds one gateway configuration per vendor.
type GatewayConfigs struct {
	Foxit  gateway.Config `mapstructure:"foxit" yaml:"foxit" json:"foxit"`
	Vonage gateway.Config `mapstructure:"vonage" yaml:"vonage" json:"vonage"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`   // debug, info, warn or error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text or json
}

// DefaultConfig returns defaults for every section.
func DefaultConfig() Config {
	return Config{
		Foxit:  foxit.DefaultConfig(),
		Vonage: vonage.DefaultConfig(),
		Gateways: GatewayConfigs{
			Foxit:  gateway.DefaultConfig("foxit"),
			Vonage: gateway.DefaultConfig("vonage"),
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Foxit.Validate(); err != nil {
		return err
	}
	if err := c.Vonage.Validate(); err != nil {
		return err
	}
	if err := c.Gateways.Foxit.Validate(); err != nil {
		return err
	}
	if err := c.Gateways.Vonage.Validate(); err != nil {
		return err
	}
	_, err := c.Log.level()
	return err
}

func (c LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds a slog.Logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log.format: unknown format %q", c.Format)
	}
}
