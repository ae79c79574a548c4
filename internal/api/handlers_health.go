// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string  `json:"status"`
	Cards     int     `json:"cards"`
	AIEnabled bool    `json:"ai_enabled"`
	Uptime    float64 `json:"uptime_seconds"`
	Timestamp string  `json:"timestamp"`
}

// Health reports readiness. An empty catalog marks the service degraded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.catalog == nil || h.catalog.Len() == 0 {
		status = "degraded"
	}

	cards := 0
	if h.catalog != nil {
		cards = h.catalog.Len()
	}

	respondJSON(w, http.StatusOK, HealthStatus{
		Status:    status,
		Cards:     cards,
		AIEnabled: h.interpreter != nil && h.interpreter.AIEnabled(),
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
