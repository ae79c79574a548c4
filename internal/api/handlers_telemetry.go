// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/arcana/internal/telemetry"
	"github.com/tomtom215/arcana/internal/validation"
)

// maxTelemetryBody bounds POST /log bodies.
const maxTelemetryBody = 256 << 10

// LogEvents accepts a telemetry batch. The whole batch is rejected with
// 422 if any event fails validation; otherwise the response is 204 and
// persistence happens asynchronously.
func (h *Handler) LogEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTelemetryBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, CodeBadRequest, "Request body too large", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "Failed to read request body", err)
		return
	}

	var batch telemetry.Batch
	if err := json.Unmarshal(body, &batch); err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, CodeValidationError, "Malformed telemetry batch", err)
		return
	}

	err = h.telemetry.Submit(r.Context(), &batch, r.UserAgent())
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, telemetry.ErrBatchTooLarge):
		respondError(w, r, http.StatusRequestEntityTooLarge, CodeBadRequest, "Too many events in batch", err)
	case errors.Is(err, telemetry.ErrInvalidBatch):
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			apiErr := verr.ToAPIError()
			respondAPIError(w, r, http.StatusUnprocessableEntity, APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			}, err)
			return
		}
		respondError(w, r, http.StatusUnprocessableEntity, CodeValidationError, "Invalid telemetry batch", err)
	default:
		respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Failed to accept telemetry", err)
	}
}
