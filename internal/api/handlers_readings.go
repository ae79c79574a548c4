// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/interpret"
	"github.com/tomtom215/arcana/internal/logging"
	"github.com/tomtom215/arcana/internal/metrics"
	"github.com/tomtom215/arcana/internal/reading"
)

// CreateReading draws a spread, interprets it and stores the result.
//
// Query parameters: question, language (en|tr), ai (off bypasses the
// provider), tone and length. Unknown tone and length values fall back
// to gentle and medium. A storage failure is logged and the reading is
// still returned.
func (h *Handler) CreateReading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	typeID := chi.URLParam(r, "readingType")
	lang := catalog.ParseLanguage(q.Get("language"))

	spread, cards, err := h.composer.Compose(typeID, lang)
	if errors.Is(err, reading.ErrUnknownType) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Reading type not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to draw cards", err)
		return
	}

	text, mode := h.interpreter.Interpret(ctx, interpret.Request{
		ReadingType: spread.ID,
		Cards:       cards,
		Question:    q.Get("question"),
		Language:    lang,
		Tone:        interpret.ParseTone(q.Get("tone")),
		Length:      interpret.ParseLength(q.Get("length")),
		BypassAI:    q.Get("ai") == "off",
	})

	rd := &reading.Reading{
		ID:             h.newID(),
		ReadingType:    spread.ID,
		Cards:          cards,
		Interpretation: text,
		Mode:           mode,
		Timestamp:      h.now().UTC(),
	}

	if err := h.store.Save(ctx, rd); err != nil {
		metrics.ReadingPersistErrors.Inc()
		logging.Ctx(ctx).Error().Err(err).
			Str("reading_id", rd.ID).
			Str("reading_type", rd.ReadingType).
			Msg("Failed to persist reading")
	}
	metrics.RecordReading(rd.ReadingType, string(rd.Mode))

	logging.Ctx(ctx).Info().
		Str("reading_id", rd.ID).
		Str("reading_type", rd.ReadingType).
		Str("mode", string(rd.Mode)).
		Str("language", string(lang)).
		Msg("Reading created")

	respondJSON(w, http.StatusOK, rd)
}

// ListReadings returns stored readings newest first.
func (h *Handler) ListReadings(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.readingsLimit(r)
	if !ok {
		respondAPIError(w, r, http.StatusUnprocessableEntity, APIError{
			Code:    CodeValidationError,
			Message: "limit must be a positive integer",
			Details: map[string]interface{}{"field": "limit", "value": r.URL.Query().Get("limit")},
		}, nil)
		return
	}

	readings, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to load readings", err)
		return
	}
	respondJSON(w, http.StatusOK, readings)
}

// readingsLimit parses ?limit. Missing means the configured default;
// values above the configured maximum are clamped.
func (h *Handler) readingsLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.config.DefaultReadingsLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, false
	}
	if h.config.MaxReadingsLimit > 0 && limit > h.config.MaxReadingsLimit {
		limit = h.config.MaxReadingsLimit
	}
	return limit, true
}
