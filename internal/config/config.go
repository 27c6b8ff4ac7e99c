package config

import "time"

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UpstreamConfig contains the translation endpoint configuration.
type UpstreamConfig struct {
	URL             string        `mapstructure:"url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxTextLength   int           `mapstructure:"max_text_length"`
	MaxPayloadBytes int           `mapstructure:"max_payload_bytes"`
}

// ProxyConfig contains the egress endpoint pool.
type ProxyConfig struct {
	// Endpoints is a comma-delimited list of egress endpoint URLs. Empty
	// means all requests go to the direct upstream URL.
	Endpoints string `mapstructure:"endpoints"`
}

// RateLimitConfig contains token-bucket admission configuration.
type RateLimitConfig struct {
	Capacity  float64       `mapstructure:"capacity"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size"`
	StateTTL  time.Duration `mapstructure:"state_ttl"`
}

// RetryConfig bounds the retry-with-backoff wrapper.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	Jitter      float64       `mapstructure:"jitter"`
}

// StoreConfig contains durable rate-limit state store configuration.
type StoreConfig struct {
	// Driver selects the backend: memory, redis, or libsql.
	Driver string `mapstructure:"driver"`

	// Addr is the redis address (host:port).
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// Path or URL locate the libsql database.
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level.
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
