// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

import "testing"

func TestParseTone(t *testing.T) {
	tests := []struct {
		in   string
		want Tone
	}{
		{"gentle", ToneGentle},
		{"analytical", ToneAnalytical},
		{"motivational", ToneMotivational},
		{"spiritual", ToneSpiritual},
		{"direct", ToneDirect},
		{"", ToneGentle},
		{"sarcastic", ToneGentle},
		{"DIRECT", ToneGentle},
	}
	for _, tt := range tests {
		if got := ParseTone(tt.in); got != tt.want {
			t.Errorf("ParseTone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLengthAndBudgets(t *testing.T) {
	tests := []struct {
		in     string
		want   Length
		target int
		max    int
	}{
		{"short", LengthShort, 100, 120},
		{"medium", LengthMedium, 200, 240},
		{"long", LengthLong, 350, 420},
		{"epic", LengthMedium, 200, 240},
		{"", LengthMedium, 200, 240},
	}
	for _, tt := range tests {
		got := ParseLength(tt.in)
		if got != tt.want {
			t.Errorf("ParseLength(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got.TargetWords() != tt.target {
			t.Errorf("%s.TargetWords() = %d, want %d", got, got.TargetWords(), tt.target)
		}
		if got.MaxWords() != tt.max {
			t.Errorf("%s.MaxWords() = %d, want %d", got, got.MaxWords(), tt.max)
		}
	}
}
