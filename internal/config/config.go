// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package config loads Arcana configuration from built-in defaults, an
// optional YAML file, and environment variables, in that order of
// precedence (env wins).
//
// Environment Variables:
//   - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT: listener settings
//   - EMERGENT_LLM_KEY: AI credential, with OPENAI_API_KEY as a fallback (absent means rule-based only)
//   - OPENAI_MODEL, OPENAI_TEMPERATURE, OPENAI_MAX_TOKENS, OPENAI_BASE_URL
//   - DB_PATH, DB_NAME, DB_IN_MEMORY, DB_GC_INTERVAL: reading store
//   - TELEMETRY_LOG_DIR, TELEMETRY_SAMPLE_RATE, TELEMETRY_USER_AGENT_MAX
//   - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	AI        AIConfig        `koanf:"ai"`
	Database  DatabaseConfig  `koanf:"database"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AIConfig holds the chat-completion provider settings.
// An empty APIKey disables the AI path entirely.
type AIConfig struct {
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`

	// RequestsPerSecond caps outbound calls; bursts beyond it go straight
	// to the rule-based fallback. Zero means unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// BreakerFailureRatio trips the circuit once at least
	// BreakerMinRequests calls have been seen in the current window.
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// Enabled reports whether an AI credential is configured.
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

// DatabaseConfig locates the BadgerDB reading store.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	Name     string `koanf:"name"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval is how often value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// Dir returns the directory BadgerDB opens.
func (d DatabaseConfig) Dir() string {
	return filepath.Join(d.Path, d.Name)
}

// TelemetryConfig controls client event persistence.
type TelemetryConfig struct {
	LogDir       string  `koanf:"log_dir"`
	SampleRate   float64 `koanf:"sample_rate"`
	UserAgentMax int     `koanf:"user_agent_max"`
	MaxBatch     int     `koanf:"max_batch"`
	QueueBuffer  int64   `koanf:"queue_buffer"`
}

// APIConfig holds listing limits for GET /readings.
type APIConfig struct {
	DefaultReadingsLimit int `koanf:"default_readings_limit"`
	MaxReadingsLimit     int `koanf:"max_readings_limit"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file, and
// the environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
