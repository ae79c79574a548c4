// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Command server runs the Arcana HTTP API.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, optional config.yaml, environment)
//  2. Logging
//  3. Card catalog (embedded, verified to hold all 22 Major Arcana)
//  4. Reading store (BadgerDB)
//  5. Interpretation engine (AI provider when a key is configured)
//  6. Telemetry pipeline (watermill gochannel to a daily JSONL log)
//  7. Supervisor tree with store GC, telemetry consumer and HTTP server
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains in-flight
// requests, the consumer flushes buffered records and the store closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/arcana/internal/api"
	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/interpret"
	"github.com/tomtom215/arcana/internal/logging"
	"github.com/tomtom215/arcana/internal/reading"
	"github.com/tomtom215/arcana/internal/storage"
	"github.com/tomtom215/arcana/internal/supervisor"
	"github.com/tomtom215/arcana/internal/supervisor/services"
	"github.com/tomtom215/arcana/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Bool("ai_enabled", cfg.AI.Enabled()).
		Str("ai_model", cfg.AI.Model).
		Bool("db_in_memory", cfg.Database.InMemory).
		Str("db_dir", cfg.Database.Dir()).
		Str("telemetry_dir", cfg.Telemetry.LogDir).
		Float64("telemetry_sample_rate", cfg.Telemetry.SampleRate).
		Msg("Configuration loaded")

	cards, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load card catalog: %w", err)
	}
	logging.Info().Int("cards", cards.Len()).Msg("Card catalog loaded")

	store, err := storage.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open reading store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing reading store")
		}
	}()

	var generator interpret.Generator
	if cfg.AI.Enabled() {
		generator = interpret.NewChatClient(cfg.AI, nil)
		logging.Info().Str("base_url", cfg.AI.BaseURL).Msg("AI interpretation enabled")
	} else {
		logging.Info().Msg("No AI key configured, using rule-based interpretation")
	}
	engine := interpret.NewEngine(generator)

	pubsub := telemetry.NewPubSub(cfg.Telemetry)
	defer func() {
		if err := pubsub.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing telemetry pubsub")
		}
	}()
	sink := telemetry.NewSink(pubsub, cfg.Telemetry)
	consumer := telemetry.NewConsumer(pubsub, telemetry.NewDailyLog(cfg.Telemetry.LogDir))
	// Leave the HTTP layer room to finish within the same shutdown budget.
	consumer.SetDrainTimeout(cfg.Server.ShutdownTimeout / 2)

	handler := api.NewHandler(api.Dependencies{
		Catalog:     cards,
		Composer:    reading.NewComposer(cards, nil),
		Interpreter: engine,
		Store:       store,
		Telemetry:   sink,
		Config:      cfg.API,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(storage.NewGCService(store, cfg.Database.GCInterval))
	tree.AddMessagingService(consumer)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	stats := consumer.Stats()
	logging.Info().
		Int64("telemetry_received", stats.MessagesReceived).
		Int64("telemetry_written", stats.MessagesWritten).
		Int64("telemetry_failed", stats.WriteErrors).
		Int64("telemetry_lost", stats.Pending).
		Msg("Shutdown complete")
	return nil
}
