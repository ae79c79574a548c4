// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package telemetry

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DailyLog appends JSON lines to dir/telemetry-YYYY-MM-DD.jsonl, one file
// per UTC day. The file is opened per append; appends from one DailyLog
// are serialized.
type DailyLog struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

// NewDailyLog returns a DailyLog rooted at dir. The directory is created
// on first append.
func NewDailyLog(dir string) *DailyLog {
	return &DailyLog{dir: dir, now: time.Now}
}

// Path returns the file that an append at t would go to.
func (l *DailyLog) Path(t time.Time) string {
	return filepath.Join(l.dir, "telemetry-"+t.UTC().Format("2006-01-02")+".jsonl")
}

// Append writes line plus a trailing newline to today's file.
func (l *DailyLog) Append(line []byte) error {
	line = bytes.TrimRight(line, "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		return fmt.Errorf("create telemetry dir: %w", err)
	}

	path := l.Path(l.now())
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := f.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	return f.Close()
}
