// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/interpret"
	"github.com/tomtom215/arcana/internal/reading"
	"github.com/tomtom215/arcana/internal/telemetry"
)

// zeroRNG always returns 0: the lowest remaining card, upright.
type zeroRNG struct{}

func (zeroRNG) Intn(int) int { return 0 }

type memStore struct {
	mu       sync.Mutex
	readings []reading.Reading
	saveErr  error
}

func (s *memStore) Save(_ context.Context, r *reading.Reading) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, *r)
	return nil
}

func (s *memStore) Recent(_ context.Context, limit int) ([]reading.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]reading.Reading(nil), s.readings...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readings)
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type countingPublisher struct {
	mu   sync.Mutex
	msgs []*message.Message
}

func (p *countingPublisher) Publish(_ string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *countingPublisher) Close() error { return nil }

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

type testEnv struct {
	store     *memStore
	publisher *countingPublisher
	handler   *Handler
	server    http.Handler
}

type envOption func(*Dependencies, *ChiMiddlewareConfig)

func withGenerator(g interpret.Generator) envOption {
	return func(d *Dependencies, _ *ChiMiddlewareConfig) { d.Interpreter = interpret.NewEngine(g) }
}

func withRateLimit(n int) envOption {
	return func(_ *Dependencies, m *ChiMiddlewareConfig) {
		m.RateLimitRequests = n
		m.RateLimitWindow = time.Hour
		m.RateLimitDisabled = false
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	store := &memStore{}
	pub := &countingPublisher{}

	deps := Dependencies{
		Catalog:     c,
		Composer:    reading.NewComposer(c, zeroRNG{}),
		Interpreter: interpret.NewEngine(nil),
		Store:       store,
		Telemetry: telemetry.NewSink(pub, config.TelemetryConfig{
			SampleRate:   1,
			UserAgentMax: 256,
			MaxBatch:     3,
		}),
		Config: config.APIConfig{DefaultReadingsLimit: 10, MaxReadingsLimit: 20},
	}
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	for _, opt := range opts {
		opt(&deps, mwCfg)
	}

	h := NewHandler(deps)
	return &testEnv{
		store:     store,
		publisher: pub,
		handler:   h,
		server:    NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi(),
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

var errDiskFull = errors.New("disk full")

func httpRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, target, nil)
}
