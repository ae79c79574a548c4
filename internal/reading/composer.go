// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package reading composes spreads from the card catalog and defines the
// persisted Reading record.
package reading

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/arcana/internal/catalog"
)

// RNG abstracts the random source so tests can supply fixed sequences.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// SystemRNG delegates to the auto-seeded math/rand/v2 global source,
// which is safe for concurrent use.
type SystemRNG struct{}

// Intn implements RNG.
func (SystemRNG) Intn(n int) int { return rand.IntN(n) }

// Mode records where an interpretation came from.
type Mode string

const (
	ModeAI       Mode = "ai"
	ModeRule     Mode = "rule"
	ModeFallback Mode = "fallback"
)

// DrawnCard pairs a projected card with its spread position.
type DrawnCard struct {
	Card     catalog.Card `json:"card"`
	Position string       `json:"position"`
	Reversed bool         `json:"reversed"`
}

// Reading is one request's worth of drawn cards and interpretation.
// It is never mutated after creation.
type Reading struct {
	ID             string      `json:"id"`
	ReadingType    string      `json:"reading_type"`
	Cards          []DrawnCard `json:"cards"`
	Interpretation string      `json:"interpretation"`
	Mode           Mode        `json:"mode"`
	Timestamp      time.Time   `json:"timestamp"`
}

// Composer draws cards for a reading type.
type Composer struct {
	catalog *catalog.Catalog
	rng     RNG
}

// NewComposer returns a Composer over c. A nil rng selects SystemRNG.
// rng must be safe for concurrent use if the Composer is shared.
func NewComposer(c *catalog.Catalog, rng RNG) *Composer {
	if rng == nil {
		rng = SystemRNG{}
	}
	return &Composer{catalog: c, rng: rng}
}

// Compose draws CardCount distinct cards for typeID, projected to lang.
// Cards are paired with positions in draw order; each card then gets an
// independent fair coin flip for orientation. For every position the
// RNG is consulted once for the card and once for the flip.
func (c *Composer) Compose(typeID string, lang catalog.Language) (Type, []DrawnCard, error) {
	t, err := LookupType(typeID)
	if err != nil {
		return Type{}, nil, err
	}

	deck := c.catalog.List(lang)
	if t.CardCount > len(deck) {
		return Type{}, nil, fmt.Errorf("reading type %q needs %d cards, catalog has %d", t.ID, t.CardCount, len(deck))
	}

	drawn := make([]DrawnCard, t.CardCount)
	for i := range t.CardCount {
		j := i + c.rng.Intn(len(deck)-i)
		deck[i], deck[j] = deck[j], deck[i]
		drawn[i] = DrawnCard{
			Card:     deck[i],
			Position: t.Positions[i],
			Reversed: c.rng.Intn(2) == 1,
		}
	}
	return t, drawn, nil
}
