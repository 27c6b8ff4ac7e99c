// Package config provides centralized configuration management for Translay.
// Configuration is resolved in three layers: built-in defaults, an optional
// YAML config file, and TRANSLAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "TRANSLAY"

// Load resolves configuration from defaults, an optional config file, and
// environment overrides. cfgFile may be empty, in which case translay.yaml is
// searched in the working directory and $HOME/.config/translay.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("translay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/translay")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			// A missing default config file is fine; an explicit one is not.
			if cfgFile != "" {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("upstream.url", "https://www2.deepl.com/jsonrpc")
	v.SetDefault("upstream.request_timeout", "10s")
	v.SetDefault("upstream.max_text_length", 5000)
	v.SetDefault("upstream.max_payload_bytes", 131072)

	v.SetDefault("proxy.endpoints", "")

	v.SetDefault("rate_limit.capacity", 60)
	v.SetDefault("rate_limit.cache_ttl", "5s")
	v.SetDefault("rate_limit.cache_size", 4096)
	v.SetDefault("rate_limit.state_ttl", "2m")

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", "250ms")
	v.SetDefault("retry.max_delay", "4s")
	v.SetDefault("retry.jitter", 0.2)

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.addr", "localhost:6379")
	v.SetDefault("store.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.enabled", true)
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Upstream.URL) == "" {
		return errors.New("upstream.url is required")
	}
	if cfg.Upstream.MaxTextLength <= 0 {
		return errors.New("upstream.max_text_length must be positive")
	}
	if cfg.Upstream.MaxPayloadBytes <= 0 {
		return errors.New("upstream.max_payload_bytes must be positive")
	}
	if cfg.RateLimit.Capacity <= 0 {
		return errors.New("rate_limit.capacity must be positive")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be at least 1")
	}
	if cfg.Retry.Jitter < 0 || cfg.Retry.Jitter > 1 {
		return errors.New("retry.jitter must be within [0, 1]")
	}
	return nil
}
