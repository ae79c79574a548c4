// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package reading

import (
	"errors"
	"fmt"
)

// Known reading type ids.
const (
	CardOfDay    = "card_of_day"
	ClassicTarot = "classic_tarot"
	PathOfDay    = "path_of_day"
	CouplesTarot = "couples_tarot"
	YesNo        = "yes_no"
)

// ErrUnknownType is returned for reading type ids outside the fixed set.
var ErrUnknownType = errors.New("reading type not found")

// Type describes a spread: how many cards it draws and what each
// position means. len(Positions) == CardCount always holds.
type Type struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CardCount   int      `json:"card_count"`
	Positions   []string `json:"positions"`
}

var types = []Type{
	{
		ID:          CardOfDay,
		Name:        "Card of the Day",
		Description: "The simplest Tarot in which you choose the card that will mark your day.",
		CardCount:   1,
		Positions:   []string{"Your Day"},
	},
	{
		ID:          ClassicTarot,
		Name:        "Classic Tarot",
		Description: "A three-card spread that will give you the forecast for today and also offer you some advice on health.",
		CardCount:   3,
		Positions:   []string{"Past/Foundation", "Present/Current Situation", "Future/Outcome"},
	},
	{
		ID:          PathOfDay,
		Name:        "The Path of the Day",
		Description: "Four-card spread to guess work, money and love for today.",
		CardCount:   4,
		Positions:   []string{"Work", "Money", "Love", "General Advice"},
	},
	{
		ID:          CouplesTarot,
		Name:        "The Tarot of the Couples",
		Description: "This love Tarot predicts the future of any couple and offers advice on how to improve their relationship.",
		CardCount:   5,
		Positions:   []string{"Your Feelings", "Partner's Feelings", "Current Relationship", "Challenges", "Future Together"},
	},
	{
		ID:          YesNo,
		Name:        "Yes or No",
		Description: "Ask the Tarot a question for a direct and reasoned answer.",
		CardCount:   1,
		Positions:   []string{"Answer"},
	},
}

// Types returns the fixed reading type configurations in display order.
func Types() []Type {
	out := make([]Type, len(types))
	for i, t := range types {
		out[i] = t.clone()
	}
	return out
}

// LookupType returns the configuration for id.
func LookupType(id string) (Type, error) {
	for _, t := range types {
		if t.ID == id {
			return t.clone(), nil
		}
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, id)
}

func (t Type) clone() Type {
	t.Positions = append([]string(nil), t.Positions...)
	return t
}
