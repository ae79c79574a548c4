// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/arcana/config.yaml",
	"/etc/arcana/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// FallbackAPIKeyEnvVar supplies ai.api_key only when no other source set
// a non-empty one. EMERGENT_LLM_KEY is the primary credential variable.
const FallbackAPIKeyEnvVar = "OPENAI_API_KEY"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8001,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		AI: AIConfig{
			APIKey:              "",
			Model:               "gpt-4o-mini",
			Temperature:         0.7,
			MaxTokens:           600,
			BaseURL:             "https://api.openai.com/v1",
			Timeout:             20 * time.Second,
			RequestsPerSecond:   0,
			Burst:               5,
			BreakerFailureRatio: 0.6,
			BreakerMinRequests:  5,
			BreakerOpenTimeout:  30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:       "/data",
			Name:       "arcana",
			GCInterval: 10 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			LogDir:       "logs",
			SampleRate:   0.5,
			UserAgentMax: 200,
			MaxBatch:     100,
			QueueBuffer:  1024,
		},
		API: APIConfig{
			DefaultReadingsLimit: 10,
			MaxReadingsLimit:     100,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValueFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := applyFallbackAPIKey(k); err != nil {
		return nil, err
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// AI provider
	"emergent_llm_key":         "ai.api_key",
	"openai_model":             "ai.model",
	"openai_temperature":       "ai.temperature",
	"openai_max_tokens":        "ai.max_tokens",
	"openai_base_url":          "ai.base_url",
	"openai_timeout":           "ai.timeout",
	"ai_requests_per_second":   "ai.requests_per_second",
	"ai_burst":                 "ai.burst",
	"ai_breaker_failure_ratio": "ai.breaker_failure_ratio",
	"ai_breaker_min_requests":  "ai.breaker_min_requests",
	"ai_breaker_open_timeout":  "ai.breaker_open_timeout",

	// Reading store
	"db_path":        "database.path",
	"db_name":        "database.name",
	"db_in_memory":   "database.in_memory",
	"db_gc_interval": "database.gc_interval",

	// Telemetry
	"telemetry_log_dir":        "telemetry.log_dir",
	"telemetry_sample_rate":    "telemetry.sample_rate",
	"telemetry_user_agent_max": "telemetry.user_agent_max",
	"telemetry_max_batch":      "telemetry.max_batch",
	"telemetry_queue_buffer":   "telemetry.queue_buffer",

	// API
	"readings_default_limit": "api.default_readings_limit",
	"readings_max_limit":     "api.max_readings_limit",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf paths.
//
//   - OPENAI_MODEL -> ai.model
//   - TELEMETRY_SAMPLE_RATE -> telemetry.sample_rate
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// secretConfigPaths are never overwritten by an empty variable, so an
// exported-but-blank credential cannot erase one from the config file.
var secretConfigPaths = map[string]bool{
	"ai.api_key": true,
}

// envValueFunc maps a variable through envTransformFunc and drops empty
// values for secret paths.
func envValueFunc(key, value string) (string, interface{}) {
	path := envTransformFunc(key)
	if secretConfigPaths[path] && strings.TrimSpace(value) == "" {
		return "", nil
	}
	return path, value
}

// applyFallbackAPIKey fills ai.api_key from FallbackAPIKeyEnvVar when it
// is still empty after every other source.
func applyFallbackAPIKey(k *koanf.Koanf) error {
	if k.String("ai.api_key") != "" {
		return nil
	}
	fallback := strings.TrimSpace(os.Getenv(FallbackAPIKeyEnvVar))
	if fallback == "" {
		return nil
	}
	if err := k.Set("ai.api_key", fallback); err != nil {
		return fmt.Errorf("failed to set ai.api_key: %w", err)
	}
	return nil
}
