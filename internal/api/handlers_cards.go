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
	"github.com/tomtom215/arcana/internal/logging"
	"github.com/tomtom215/arcana/internal/reading"
)

// Root answers the liveness banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Tarot API is running"})
}

// ListCards returns all 22 cards in the requested language, without
// image payloads.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	lang := catalog.ParseLanguage(r.URL.Query().Get("language"))
	respondJSON(w, http.StatusOK, h.catalog.List(lang))
}

// GetCard returns one card with its image embedded as a data URI.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Card not found", nil)
		return
	}

	card, err := h.catalog.Get(id, catalog.ParseLanguage(r.URL.Query().Get("language")))
	if errors.Is(err, catalog.ErrCardNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Card not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to load card", err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

// GetCardImage streams the raw image for a card.
func (h *Handler) GetCardImage(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Image not found", nil)
		return
	}

	data, mimeType, err := h.catalog.Image(id)
	if err != nil {
		if !errors.Is(err, catalog.ErrImageNotFound) {
			logging.Ctx(r.Context()).Error().Err(err).Int("card_id", id).Msg("Failed to read card image")
		}
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Image not found", nil)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write card image")
	}
}

// ListReadingTypes returns the fixed spread configurations.
func (h *Handler) ListReadingTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, reading.Types())
}

// cardID parses the {id} path segment. Non-numeric ids are treated as
// unknown cards.
func cardID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}
