// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/metrics"
)

var (
	// ErrUpstreamFailure wraps every way a completion call can fail.
	ErrUpstreamFailure = errors.New("ai upstream failure")

	// ErrEmptyCompletion is returned when the provider answers 200 with no
	// usable content.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrRateLimited is returned when the local limiter rejects a call.
	ErrRateLimited = errors.New("ai request rate limited")
)

// maxResponseBytes bounds how much of a provider response is read.
const maxResponseBytes = 1 << 20

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatClient calls an OpenAI-compatible chat completions endpoint behind a
// local rate limiter and a circuit breaker. It is safe for concurrent use.
type ChatClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	temp       float64
	maxTokens  int
	timeout    time.Duration

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
}

// NewChatClient creates a client from the AI configuration. httpClient may
// be nil, in which case a client with the configured timeout is used.
func NewChatClient(cfg config.AIConfig, httpClient *http.Client) *ChatClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &ChatClient{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		temp:       cfg.Temperature,
		maxTokens:  cfg.MaxTokens,
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    newBreaker(cfg),
	}
}

// Generate returns the trimmed completion for prompt. Any failure,
// including a rejection by the limiter or an open circuit, is reported as
// an error wrapping ErrUpstreamFailure.
func (c *ChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.limiter.Allow() {
		metrics.AIRequestsRejected.WithLabelValues("rate_limited").Inc()
		return "", fmt.Errorf("%w: %w", ErrUpstreamFailure, ErrRateLimited)
	}

	content, err := c.breaker.Execute(func() (string, error) {
		start := time.Now()
		content, err := c.complete(ctx, prompt)
		metrics.RecordAIRequest(time.Since(start), err)
		return content, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.AIRequestsRejected.WithLabelValues("circuit_open").Inc()
		}
		return "", fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}
	return content, nil
}

func (c *ChatClient) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temp,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
