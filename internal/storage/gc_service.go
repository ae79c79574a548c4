// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package storage

import (
	"context"
	"time"

	"github.com/tomtom215/arcana/internal/logging"
)

// GarbageCollector is the part of ReadingStore the GC service needs.
type GarbageCollector interface {
	RunGC() error
}

// GCService runs value-log garbage collection on a fixed interval.
// It implements suture.Service.
type GCService struct {
	store    GarbageCollector
	interval time.Duration
}

// NewGCService returns a GCService for store.
func NewGCService(store GarbageCollector, interval time.Duration) *GCService {
	return &GCService{store: store, interval: interval}
}

// Serve runs until ctx is canceled. GC errors are logged and retried on
// the next tick.
func (s *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Reading store GC failed")
			}
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (s *GCService) String() string {
	return "reading-store-gc"
}
