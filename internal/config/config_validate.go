// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package config

import (
	"fmt"
	"net/url"
)

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateTelemetry(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateAI only checks provider settings; a missing key is valid and
// selects rule-based interpretation.
func (c *Config) validateAI() error {
	if err := validateHTTPURL(c.AI.BaseURL, "OPENAI_BASE_URL"); err != nil {
		return err
	}
	if c.AI.Model == "" {
		return fmt.Errorf("OPENAI_MODEL must not be empty")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2, got %v", c.AI.Temperature)
	}
	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", c.AI.MaxTokens)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive")
	}
	if c.AI.RequestsPerSecond < 0 {
		return fmt.Errorf("AI_REQUESTS_PER_SECOND must not be negative")
	}
	if c.AI.BreakerFailureRatio <= 0 || c.AI.BreakerFailureRatio > 1 {
		return fmt.Errorf("AI_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.AI.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.GCInterval <= 0 {
		return fmt.Errorf("DB_GC_INTERVAL must be positive")
	}
	if c.Database.InMemory {
		return nil
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required unless DB_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateTelemetry() error {
	if c.Telemetry.LogDir == "" {
		return fmt.Errorf("TELEMETRY_LOG_DIR must not be empty")
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("TELEMETRY_SAMPLE_RATE must be between 0 and 1, got %v", c.Telemetry.SampleRate)
	}
	if c.Telemetry.UserAgentMax < 0 {
		return fmt.Errorf("TELEMETRY_USER_AGENT_MAX must not be negative")
	}
	if c.Telemetry.MaxBatch < 1 {
		return fmt.Errorf("TELEMETRY_MAX_BATCH must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultReadingsLimit < 1 {
		return fmt.Errorf("READINGS_DEFAULT_LIMIT must be positive")
	}
	if c.API.MaxReadingsLimit < c.API.DefaultReadingsLimit {
		return fmt.Errorf("READINGS_MAX_LIMIT (%d) must be >= READINGS_DEFAULT_LIMIT (%d)",
			c.API.MaxReadingsLimit, c.API.DefaultReadingsLimit)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks for an http(s) URL with a host. Paths are
// allowed since provider base URLs usually carry a version segment.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
