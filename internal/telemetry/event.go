// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package telemetry ingests client analytics events.
//
// A Sink validates a batch against the closed event vocabulary, stamps
// each event, samples it and publishes the survivors on an in-process
// watermill topic. A Consumer subscribed to that topic appends every
// message as one JSON line to a DailyLog. Submission never waits for the
// append, so HTTP handlers can answer before anything reaches disk.
package telemetry

import "time"

// Event tags accepted from clients.
const (
	EventReadingBegin    = "reading_begin"
	EventReadingResult   = "reading_result"
	EventAIToggle        = "ai_toggle"
	EventToneChange      = "tone_change"
	EventLengthChange    = "length_change"
	EventShareClick      = "share_click"
	EventPaywallView     = "paywall_view"
	EventPurchaseAttempt = "purchase_attempt"
	EventPurchaseSuccess = "purchase_success"
	EventPurchaseError   = "purchase_error"
	EventRestoreSuccess  = "restore_success"
)

// Event is one client-reported analytics event. Only Name is required.
type Event struct {
	Name            string     `json:"event" validate:"required,oneof=reading_begin reading_result ai_toggle tone_change length_change share_click paywall_view purchase_attempt purchase_success purchase_error restore_success"`
	Timestamp       *time.Time `json:"ts,omitempty"`
	SessionID       string     `json:"sessionId,omitempty" validate:"max=128"`
	UserIDHash      string     `json:"userIdHash,omitempty" validate:"max=256"`
	Lang            string     `json:"lang,omitempty" validate:"omitempty,oneof=tr en"`
	Type            string     `json:"type,omitempty" validate:"max=64"`
	Mode            string     `json:"mode,omitempty" validate:"omitempty,oneof=ai rule fallback"`
	AIEnabled       *bool      `json:"aiEnabled,omitempty"`
	Tone            string     `json:"tone,omitempty" validate:"omitempty,oneof=gentle analytical motivational spiritual direct"`
	Length          string     `json:"length,omitempty" validate:"omitempty,oneof=short medium long"`
	DurationMs      *int64     `json:"durationMs,omitempty" validate:"omitempty,gte=0"`
	QuestionPresent *bool      `json:"questionPresent,omitempty"`
}

// Batch is the POST /log request body.
type Batch struct {
	Events []Event `json:"events" validate:"required,min=1,dive"`
}

// Record is the persisted projection of an Event.
type Record struct {
	ID string `json:"id"`
	Event
	ReceivedAt time.Time `json:"receivedAt"`
	UserAgent  string    `json:"userAgent,omitempty"`
}
