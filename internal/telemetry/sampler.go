// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package telemetry

import "github.com/spaolacci/murmur3"

// Sampler decides which records are persisted. Result events are always
// kept; everything else is kept when the murmur3 hash of the record id,
// scaled to [0, 1), falls below Rate.
type Sampler struct {
	Rate float64
}

// Keep reports whether r should be persisted. The decision depends only
// on r.Name and r.ID, so it is stable across retries of the same record.
func (s Sampler) Keep(r *Record) bool {
	if r.Name == EventReadingResult {
		return true
	}
	switch {
	case s.Rate >= 1:
		return true
	case s.Rate <= 0:
		return false
	}
	return float64(murmur3.Sum32([]byte(r.ID)))/(1<<32) < s.Rate
}
