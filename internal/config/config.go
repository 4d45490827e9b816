// Package config loads onboardiq.Config from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/prilive-com/onboardiq"
)

// EnvPrefix prefixes every environment override, e.g.
// ONBOARDIQ_FOXIT_API_KEY or ONBOARDIQ_GATEWAYS_VONAGE_MAX_ATTEMPTS.
const EnvPrefix = "ONBOARDIQ"

// Load reads the configuration. With an empty path it looks for
// onboardiq.yaml in the working directory and $HOME/.config/onboardiq, and a
// missing file just means defaults plus environment. An explicit path must
// exist.
func Load(path string) (onboardiq.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, "", reflect.ValueOf(onboardiq.DefaultConfig()))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("onboardiq")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/onboardiq")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return onboardiq.Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg onboardiq.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return onboardiq.Config{}, fmt.Errorf("config: decode %s: %w", source(v), err)
	}
	if err := cfg.Validate(); err != nil {
		return onboardiq.Config{}, fmt.Errorf("config: %s: %w", source(v), err)
	}
	return cfg, nil
}

func source(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}
	return "defaults"
}

var durationType = reflect.TypeOf(time.Duration(0))

// setDefaults registers every leaf of a struct under its mapstructure key.
// Viper only consults the environment for keys it already knows.
func setDefaults(v *viper.Viper, prefix string, val reflect.Value) {
	t := val.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		tag := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		fv := val.Field(i)
		if fv.Kind() == reflect.Struct && fv.Type() != durationType {
			setDefaults(v, key, fv)
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}
