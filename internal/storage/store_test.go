// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/reading"
)

func openMemory(t *testing.T) *ReadingStore {
	t.Helper()
	s, err := Open(config.DatabaseConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testReading(id string, ts time.Time) *reading.Reading {
	return &reading.Reading{
		ID:          id,
		ReadingType: reading.CardOfDay,
		Cards: []reading.DrawnCard{{
			Card:     catalog.Card{ID: 3, Name: "The Empress", Keywords: []string{"abundance"}},
			Position: "Your Day",
			Reversed: true,
		}},
		Interpretation: "text",
		Mode:           reading.ModeRule,
		Timestamp:      ts,
	}
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	// Insert out of order to show ordering comes from the key, not insertion.
	for _, i := range []int{2, 0, 4, 1, 3} {
		if err := s.Save(ctx, testReading(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	want := []string{"r4", "r3", "r2"}
	if len(got) != len(want) {
		t.Fatalf("Recent() returned %d readings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("Recent()[%d].ID = %s, want %s", i, got[i].ID, want[i])
		}
	}

	all, _ := s.Recent(ctx, 100)
	if len(all) != 5 {
		t.Errorf("Recent(100) returned %d readings, want 5", len(all))
	}
}

func TestSave_RoundTripsFields(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	if err := s.Save(ctx, testReading("abc", ts)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Recent(ctx, 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("Recent() = %v, %v", got, err)
	}
	r := got[0]
	if !r.Timestamp.Equal(ts) || r.Mode != reading.ModeRule || r.ReadingType != reading.CardOfDay {
		t.Errorf("reading = %+v", r)
	}
	if len(r.Cards) != 1 || !r.Cards[0].Reversed || r.Cards[0].Card.Name != "The Empress" {
		t.Errorf("cards = %+v", r.Cards)
	}
}

func TestRecent_EmptyAndZeroLimit(t *testing.T) {
	s := openMemory(t)
	got, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Recent() on empty store = %v, want empty non-nil slice", got)
	}
	_ = s.Save(context.Background(), testReading("x", time.Now()))
	if got, _ := s.Recent(context.Background(), 0); len(got) != 0 {
		t.Errorf("Recent(0) = %v, want empty", got)
	}
}

func TestSave_Errors(t *testing.T) {
	s, err := Open(config.DatabaseConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Save(context.Background(), testReading("", time.Now())); !errors.Is(err, ErrInvalidReading) {
		t.Errorf("empty id: error = %v, want ErrInvalidReading", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, testReading("a", time.Now())); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled ctx: error = %v, want context.Canceled", err)
	}

	_ = s.Close()
	if err := s.Save(context.Background(), testReading("b", time.Now())); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("closed store: error = %v, want ErrStoreClosed", err)
	}
}

func TestOpen_OnDiskPersistsAcrossReopen(t *testing.T) {
	cfg := config.DatabaseConfig{Path: t.TempDir(), Name: "arcana"}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Save(context.Background(), testReading("persisted", time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.Recent(context.Background(), 10)
	if err != nil || len(got) != 1 || got[0].ID != "persisted" {
		t.Errorf("Recent() after reopen = %v, %v", got, err)
	}
}

type countingGC struct{ runs atomic.Int32 }

func (c *countingGC) RunGC() error {
	c.runs.Add(1)
	return errors.New("nothing to do")
}

func TestGCService_RunsOnTickUntilCanceled(t *testing.T) {
	gc := &countingGC{}
	svc := NewGCService(gc, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for gc.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if gc.runs.Load() < 2 {
		t.Errorf("GC ran %d times, want at least 2", gc.runs.Load())
	}
	if svc.String() != "reading-store-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}
