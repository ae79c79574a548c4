// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Reading Metrics
	ReadingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readings_created_total",
			Help: "Total number of readings composed, by type and interpretation mode",
		},
		[]string{"reading_type", "mode"},
	)

	ReadingPersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reading_persist_errors_total",
			Help: "Total number of readings returned to the client but not stored",
		},
	)

	// AI Upstream Metrics
	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Duration of chat completion calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 12, 16, 20},
		},
		[]string{"result"}, // "success", "error"
	)

	AIRequestsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_rejected_total",
			Help: "Chat completion calls skipped before reaching the provider",
		},
		[]string{"reason"}, // "rate_limited", "circuit_open"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Telemetry Metrics
	TelemetryEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_events_received_total",
			Help: "Accepted client telemetry events by tag",
		},
		[]string{"event"},
	)

	TelemetryEventsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_events_persisted_total",
			Help: "Telemetry events written to the daily log",
		},
		[]string{"event"},
	)

	TelemetryEventsSampledOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_events_sampled_out_total",
			Help: "Telemetry events dropped by sampling",
		},
	)

	TelemetryBatchesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_batches_rejected_total",
			Help: "Telemetry batches rejected by validation",
		},
	)

	TelemetryWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_write_errors_total",
			Help: "Failed appends to the telemetry log",
		},
	)

	// Storage Metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Duration of reading store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordReading counts a composed reading by its interpretation mode.
func RecordReading(readingType, mode string) {
	ReadingsCreated.WithLabelValues(readingType, mode).Inc()
}

// RecordAIRequest records the outcome of a chat completion call.
func RecordAIRequest(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	AIRequestDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordStorageOperation records a reading store call.
func RecordStorageOperation(operation string, duration time.Duration) {
	StorageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
