// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/logging"
	"github.com/tomtom215/arcana/internal/metrics"
	"github.com/tomtom215/arcana/internal/validation"
)

// Topic is the watermill topic records are published on.
const Topic = "telemetry.records"

// metadataEvent carries the event tag alongside the payload so consumers
// can label metrics without decoding.
const metadataEvent = "event"

var (
	// ErrInvalidBatch wraps a *validation.RequestValidationError.
	ErrInvalidBatch = errors.New("invalid telemetry batch")

	// ErrBatchTooLarge is returned when a batch exceeds the configured size.
	ErrBatchTooLarge = errors.New("telemetry batch too large")
)

// Sink validates, stamps and samples events, then publishes them.
type Sink struct {
	publisher    message.Publisher
	sampler      Sampler
	userAgentMax int
	maxBatch     int
	now          func() time.Time
	newID        func() string
}

// NewSink returns a Sink publishing to pub.
func NewSink(pub message.Publisher, cfg config.TelemetryConfig) *Sink {
	return &Sink{
		publisher:    pub,
		sampler:      Sampler{Rate: cfg.SampleRate},
		userAgentMax: cfg.UserAgentMax,
		maxBatch:     cfg.MaxBatch,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Submit validates the whole batch before accepting any of it. Once
// accepted, per-event publish failures are logged and counted but not
// returned; the caller only ever sees validation errors.
func (s *Sink) Submit(ctx context.Context, batch *Batch, userAgent string) error {
	if verr := validation.ValidateStruct(batch); verr != nil {
		metrics.TelemetryBatchesRejected.Inc()
		return fmt.Errorf("%w: %w", ErrInvalidBatch, verr)
	}
	if s.maxBatch > 0 && len(batch.Events) > s.maxBatch {
		metrics.TelemetryBatchesRejected.Inc()
		return fmt.Errorf("%w: %d events, max %d", ErrBatchTooLarge, len(batch.Events), s.maxBatch)
	}

	userAgent = truncateRunes(userAgent, s.userAgentMax)
	now := s.now().UTC()

	for i := range batch.Events {
		rec := Record{
			ID:         s.newID(),
			Event:      batch.Events[i],
			ReceivedAt: now,
			UserAgent:  userAgent,
		}
		if rec.Timestamp == nil {
			ts := now
			rec.Timestamp = &ts
		}
		metrics.TelemetryEventsReceived.WithLabelValues(rec.Name).Inc()

		if !s.sampler.Keep(&rec) {
			metrics.TelemetryEventsSampledOut.Inc()
			continue
		}
		if err := s.publish(&rec); err != nil {
			metrics.TelemetryWriteErrors.Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("event", rec.Name).Msg("Failed to enqueue telemetry record")
		}
	}
	return nil
}

func (s *Sink) publish(rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	msg := message.NewMessage(rec.ID, payload)
	msg.Metadata.Set(metadataEvent, rec.Name)
	return s.publisher.Publish(Topic, msg)
}

// truncateRunes cuts s to at most n runes. n <= 0 drops s entirely.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
