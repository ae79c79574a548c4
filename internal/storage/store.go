// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package storage persists readings in BadgerDB.
//
// Keys are "reading:<20-digit unix nanos>:<id>", so a reverse prefix scan
// yields readings newest first without a secondary index.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/arcana/internal/config"
	"github.com/tomtom215/arcana/internal/metrics"
	"github.com/tomtom215/arcana/internal/reading"
)

const readingKeyPrefix = "reading:"

// gcDiscardRatio is the value-log rewrite threshold passed to badger.
const gcDiscardRatio = 0.5

var (
	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("reading store is closed")

	// ErrInvalidReading is returned for readings without an id.
	ErrInvalidReading = errors.New("reading id is required")
)

// ReadingStore is a BadgerDB-backed append-only reading log.
type ReadingStore struct {
	db       *badger.DB
	inMemory bool
}

// Open opens (or creates) the store described by cfg.
func Open(cfg config.DatabaseConfig) (*ReadingStore, error) {
	opts := badger.DefaultOptions(cfg.Dir())
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for readings: %w", err)
	}
	return &ReadingStore{db: db, inMemory: cfg.InMemory}, nil
}

func readingKey(r *reading.Reading) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", readingKeyPrefix, r.Timestamp.UnixNano(), r.ID))
}

// Save stores r. Readings are never updated; saving the same id and
// timestamp twice overwrites the first copy.
func (s *ReadingStore) Save(ctx context.Context, r *reading.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.ID == "" {
		return ErrInvalidReading
	}
	start := time.Now()
	defer func() { metrics.RecordStorageOperation("save", time.Since(start)) }()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(readingKey(r), data)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrStoreClosed
	}
	if err != nil {
		return fmt.Errorf("set reading: %w", err)
	}
	return nil
}

// Recent returns up to limit readings, newest first. limit <= 0 returns
// an empty slice.
func (s *ReadingStore) Recent(ctx context.Context, limit int) ([]reading.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	readings := make([]reading.Reading, 0, max(limit, 0))
	if limit <= 0 {
		return readings, nil
	}
	start := time.Now()
	defer func() { metrics.RecordStorageOperation("recent", time.Since(start)) }()

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchSize = min(limit, opts.PrefetchSize)
		opts.Prefix = []byte(readingKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the greatest key <= the seek key.
		seek := append([]byte(readingKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix) && len(readings) < limit; it.Next() {
			var r reading.Reading
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode reading %s: %w", it.Item().Key(), err)
			}
			readings = append(readings, r)
		}
		return nil
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, ErrStoreClosed
	}
	if err != nil {
		return nil, err
	}
	return readings, nil
}

// RunGC reclaims value-log space until badger reports nothing left to
// rewrite. It is a no-op for in-memory stores.
func (s *ReadingStore) RunGC() error {
	if s.inMemory {
		return nil
	}
	start := time.Now()
	defer func() { metrics.RecordStorageOperation("gc", time.Since(start)) }()

	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the underlying database.
func (s *ReadingStore) Close() error {
	return s.db.Close()
}
