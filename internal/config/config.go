// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables, optionally layered over a
// YAML file, with sensible defaults, and validates all settings on startup to
// fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// Every setting can be configured via environment variables; the key tag
// names the same setting in a config file.
type Config struct {
	Server   ServerConfig    `key:"server"`
	Dataset  DatasetConfig   `key:"dataset"`
	Map      MapConfig       `key:"map"`
	Rate     RateLimitConfig `key:"rate_limit"`
	Security SecurityConfig  `key:"security"`
	Logging  LoggingConfig   `key:"logging"`
	Metrics  MetricsConfig   `key:"metrics"`
	S3       S3Config        `key:"s3"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" key:"host" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" key:"port" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" key:"read_timeout" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" key:"write_timeout" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" key:"idle_timeout" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" key:"shutdown_timeout" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" key:"request_timeout" default:"30s"`
}

// DatasetConfig holds where the municipalities dataset comes from and how
// it is read.
type DatasetConfig struct {
	// Location is a path, file://, http(s):// or s3://bucket/key URL
	Location string `env:"DATASET_LOCATION" key:"location" default:"data/municipalidades.csv"`

	// CompliantKeyword is the status value that marks a municipality as
	// compliant, compared case-insensitively (default: INTEGRADO)
	CompliantKeyword string `env:"DATASET_COMPLIANT_KEYWORD" key:"compliant_keyword" default:"INTEGRADO"`

	// MaxBytes caps the dataset size (default: 10MB)
	MaxBytes int64 `env:"DATASET_MAX_BYTES" key:"max_bytes" default:"10485760"`

	// LoadTimeout bounds one load attempt (default: 30s)
	LoadTimeout time.Duration `env:"DATASET_LOAD_TIMEOUT" key:"load_timeout" default:"30s"`
}

// MapConfig holds where the departments map graphic comes from.
type MapConfig struct {
	Location string `env:"MAP_LOCATION" key:"location" default:"maps/honduras_departamentos.svg"`

	// MaxBytes caps the graphic size (default: 5MB)
	MaxBytes int64 `env:"MAP_MAX_BYTES" key:"max_bytes" default:"5242880"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" key:"enabled" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" key:"requests_per_minute" default:"120"`

	// TooltipLimit is requests per minute for the hover tooltip endpoint,
	// which fires on every department the pointer crosses (default: 600)
	TooltipLimit int `env:"RATE_LIMIT_TOOLTIP" key:"tooltip" default:"600"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" key:"trusted_proxies"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" key:"enable_csp" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" key:"level" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" key:"format" default:"text"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" key:"enabled" default:"true"`
	Path    string `env:"METRICS_PATH" key:"path" default:"/metrics"`
}

// S3Config tunes the client used for s3:// locations. Credentials come from
// the standard AWS chain.
type S3Config struct {
	Region string `env:"S3_REGION" envAlt:"AWS_REGION" key:"region"`


	// Endpoint points at an S3-compatible store such as MinIO
	Endpoint     string `env:"S3_ENDPOINT" key:"endpoint"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE" key:"use_path_style" default:"false"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
