// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package api serves the card catalog, readings and client telemetry
// over HTTP.
//
// Every route is mounted both at the root and under /api. Success
// bodies are bare JSON resources; failures use ErrorResponse.
package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/interpret"
	"github.com/tomtom215/arcana/internal/reading"
	"github.com/tomtom215/arcana/internal/telemetry"
)

// ReadingStore persists composed readings.
type ReadingStore interface {
	Save(ctx context.Context, r *reading.Reading) error
	Recent(ctx context.Context, limit int) ([]reading.Reading, error)
}

// Composer draws the cards for a reading type.
type Composer interface {
	Compose(typeID string, lang catalog.Language) (reading.Type, []reading.DrawnCard, error)
}

// Interpreter turns a drawn spread into text.
type Interpreter interface {
	Interpret(ctx context.Context, req interpret.Request) (string, reading.Mode)
	AIEnabled() bool
}

// TelemetrySink accepts client event batches.
type TelemetrySink interface {
	Submit(ctx context.Context, batch *telemetry.Batch, userAgent string) error
}

// Dependencies groups what NewHandler needs.
type Dependencies struct {
	Catalog     *catalog.Catalog
	Composer    Composer
	Interpreter Interpreter
	Store       ReadingStore
	Telemetry   TelemetrySink
	Config      config.APIConfig
}

// Handler implements the HTTP endpoints.
type Handler struct {
	catalog     *catalog.Catalog
	composer    Composer
	interpreter Interpreter
	store       ReadingStore
	telemetry   TelemetrySink
	config      config.APIConfig

	startTime time.Time
	now       func() time.Time
	newID     func() string
}

// NewHandler returns a Handler over deps.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		catalog:     deps.Catalog,
		composer:    deps.Composer,
		interpreter: deps.Interpreter,
		store:       deps.Store,
		telemetry:   deps.Telemetry,
		config:      deps.Config,
		startTime:   time.Now(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}
