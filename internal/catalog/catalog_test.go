// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package catalog

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestLoad_ExactlyTwentyTwoDistinctCards(t *testing.T) {
	t.Parallel()

	c := mustLoad(t)
	for _, lang := range []Language{English, Turkish} {
		cards := c.List(lang)
		if len(cards) != MajorArcanaSize {
			t.Fatalf("List(%s) returned %d cards, want %d", lang, len(cards), MajorArcanaSize)
		}
		for i, card := range cards {
			if card.ID != i {
				t.Errorf("List(%s)[%d].ID = %d, want ascending ids", lang, i, card.ID)
			}
			if card.ImageBase64 != "" {
				t.Errorf("List(%s) card %d carries an image payload", lang, card.ID)
			}
		}
	}
}

func TestGet_ReturnsRequestedID(t *testing.T) {
	t.Parallel()

	c := mustLoad(t)
	for id := 0; id < MajorArcanaSize; id++ {
		card, err := c.Get(id, English)
		if err != nil {
			t.Fatalf("Get(%d) error = %v", id, err)
		}
		if card.ID != id {
			t.Errorf("Get(%d).ID = %d", id, card.ID)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	c := mustLoad(t)
	for _, id := range []int{-1, 22, 100} {
		if _, err := c.Get(id, English); !errors.Is(err, ErrCardNotFound) {
			t.Errorf("Get(%d) error = %v, want ErrCardNotFound", id, err)
		}
	}
}

func TestGet_TurkishJudgementWithImage(t *testing.T) {
	t.Parallel()

	c := mustLoad(t)
	card, err := c.Get(20, Turkish)
	if err != nil {
		t.Fatalf("Get(20) error = %v", err)
	}
	if card.Name != "Yargı" {
		t.Errorf("Name = %q, want Yargı", card.Name)
	}
	if !strings.HasPrefix(card.ImageBase64, "data:image/") {
		t.Errorf("ImageBase64 = %.30q, want data:image/ prefix", card.ImageBase64)
	}
}

func TestImage_MIMEFromExtension(t *testing.T) {
	t.Parallel()

	c := mustLoad(t)
	data, mimeType, err := c.Image(0)
	if err != nil {
		t.Fatalf("Image(0) error = %v", err)
	}
	if len(data) == 0 {
		t.Error("expected image bytes")
	}
	if mimeType != "image/svg+xml" {
		t.Errorf("mimeType = %q, want image/svg+xml", mimeType)
	}
	if _, _, err := c.Image(99); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Image(99) error = %v, want ErrImageNotFound", err)
	}
}

func TestNew_FirstSeenWinsAndLocalizedFallback(t *testing.T) {
	t.Parallel()

	table := `[
		{"id": 1, "image": "b.jpg", "name": "Second", "keywords": ["k"], "meaning_upright": "up", "meaning_reversed": "down",
		 "tr": {"name": "İkinci"}},
		{"id": 0, "image": "a.png", "name": "First", "keywords": ["a", "b"], "meaning_upright": "u0", "meaning_reversed": "r0"},
		{"id": 1, "image": "c.jpg", "name": "Duplicate"}
	]`
	images := fstest.MapFS{"a.png": {Data: []byte{0x89, 'P', 'N', 'G'}}}

	c, err := New([]byte(table), images)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	second, err := c.Get(1, Turkish)
	if err != nil {
		t.Fatalf("Get(1) error = %v", err)
	}
	if second.Name != "İkinci" {
		t.Errorf("Name = %q, want localized İkinci", second.Name)
	}
	if second.MeaningUpright != "up" {
		t.Errorf("MeaningUpright = %q, want default fallback", second.MeaningUpright)
	}
	if second.ImageBase64 != "" {
		t.Error("expected no image for a missing file")
	}

	first, _ := c.Get(0, English)
	if !strings.HasPrefix(first.ImageBase64, "data:image/png;base64,") {
		t.Errorf("ImageBase64 = %q", first.ImageBase64)
	}
	if first.Meaning(true) != "r0" || first.Meaning(false) != "u0" {
		t.Errorf("Meaning() did not follow orientation")
	}
}

func TestNew_InvalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := New([]byte("{"), nil); err == nil {
		t.Error("expected decode error")
	}
}

func TestListReturnsCopies(t *testing.T) {
	t.Parallel()

	c := mustLoad(t)
	cards := c.List(English)
	cards[0].Keywords[0] = "mutated"
	if c.List(English)[0].Keywords[0] == "mutated" {
		t.Error("List exposed shared keyword slice")
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := map[string]Language{"tr": Turkish, "en": English, "": English, "de": English}
	for in, want := range tests {
		if got := ParseLanguage(in); got != want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
