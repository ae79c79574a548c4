// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

import (
	"testing"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/reading"
)

// fixedRNG always returns 0, drawing the lowest remaining id upright.
type fixedRNG struct{}

func (fixedRNG) Intn(int) int { return 0 }

func drawSpread(t *testing.T, typeID string, lang catalog.Language) []reading.DrawnCard {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	_, cards, err := reading.NewComposer(c, fixedRNG{}).Compose(typeID, lang)
	if err != nil {
		t.Fatalf("Compose(%s) error = %v", typeID, err)
	}
	return cards
}

func testCard(name string, reversed bool) reading.DrawnCard {
	return reading.DrawnCard{
		Card: catalog.Card{
			ID:              7,
			Name:            name,
			Keywords:        []string{"one", "two", "three", "four", "five"},
			MeaningUpright:  "upright meaning",
			MeaningReversed: "reversed meaning",
			Description:     "a description",
			YesNoMeaning:    "Yes",
		},
		Position: "Your Day",
		Reversed: reversed,
	}
}
