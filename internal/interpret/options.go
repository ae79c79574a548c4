// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

// Tone selects the style directive sent to the language model.
type Tone string

const (
	ToneGentle       Tone = "gentle"
	ToneAnalytical   Tone = "analytical"
	ToneMotivational Tone = "motivational"
	ToneSpiritual    Tone = "spiritual"
	ToneDirect       Tone = "direct"
)

// ParseTone returns the matching Tone, or ToneGentle for anything unknown.
// Invalid values are coerced rather than rejected so older clients keep
// working.
func ParseTone(s string) Tone {
	switch t := Tone(s); t {
	case ToneGentle, ToneAnalytical, ToneMotivational, ToneSpiritual, ToneDirect:
		return t
	default:
		return ToneGentle
	}
}

// Length selects the approximate word budget of an interpretation.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// ParseLength returns the matching Length, or LengthMedium for anything unknown.
func ParseLength(s string) Length {
	switch l := Length(s); l {
	case LengthShort, LengthMedium, LengthLong:
		return l
	default:
		return LengthMedium
	}
}

// TargetWords is the word count the prompt asks for.
func (l Length) TargetWords() int {
	switch l {
	case LengthShort:
		return 100
	case LengthLong:
		return 350
	default:
		return 200
	}
}

// MaxWords is the trim threshold: the target plus twenty percent, floored.
func (l Length) MaxWords() int {
	return l.TargetWords() * 12 / 10
}
