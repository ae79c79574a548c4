// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package catalog holds the read-only Major Arcana card table.
//
// The table is decoded once from embedded JSON, deduplicated by id
// (first occurrence wins) and ordered by ascending id. A *Catalog is
// safe for concurrent use and is passed explicitly to the components
// that need it.
package catalog

import (
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"sort"

	"github.com/goccy/go-json"
)

// MajorArcanaSize is the number of distinct cards in the production table.
const MajorArcanaSize = 22

//go:embed data/major_arcana.json images/*.svg
var embedded embed.FS

var (
	// ErrCardNotFound is returned for ids outside the table.
	ErrCardNotFound = errors.New("card not found")

	// ErrImageNotFound is returned when a card has no mapped image.
	ErrImageNotFound = errors.New("image not found")
)

// Language selects which text variant a projection uses.
type Language string

const (
	English Language = "en"
	Turkish Language = "tr"
)

// ParseLanguage maps a query value to a Language. Anything other than
// "tr" projects to English.
func ParseLanguage(s string) Language {
	if s == string(Turkish) {
		return Turkish
	}
	return English
}

// Card is a language-projected card as served to clients.
type Card struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	ImageURL        string   `json:"image_url"`
	Keywords        []string `json:"keywords"`
	MeaningUpright  string   `json:"meaning_upright"`
	MeaningReversed string   `json:"meaning_reversed"`
	Description     string   `json:"description"`
	Symbolism       string   `json:"symbolism"`
	YesNoMeaning    string   `json:"yes_no_meaning"`
	ImageBase64     string   `json:"image_base64,omitempty"`
}

// Meaning returns the oriented meaning text.
func (c *Card) Meaning(reversed bool) string {
	if reversed {
		return c.MeaningReversed
	}
	return c.MeaningUpright
}

// text is one language variant of the display fields.
type text struct {
	Name            string   `json:"name"`
	Keywords        []string `json:"keywords"`
	MeaningUpright  string   `json:"meaning_upright"`
	MeaningReversed string   `json:"meaning_reversed"`
	Description     string   `json:"description"`
	Symbolism       string   `json:"symbolism"`
	YesNoMeaning    string   `json:"yes_no_meaning"`
}

type entry struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
	text
	TR text `json:"tr"`
}

// Catalog is the immutable card table.
type Catalog struct {
	entries []entry
	index   map[int]int
	images  fs.FS
}

// Load builds the production catalog from the embedded table and
// verifies it contains exactly ids 0..21.
func Load() (*Catalog, error) {
	data, err := embedded.ReadFile("data/major_arcana.json")
	if err != nil {
		return nil, fmt.Errorf("read card table: %w", err)
	}
	c, err := New(data, embedded)
	if err != nil {
		return nil, err
	}
	if err := c.verifyComplete(MajorArcanaSize); err != nil {
		return nil, err
	}
	return c, nil
}

// New decodes a card table and resolves image paths against images.
// Duplicate ids keep their first occurrence. images may be nil.
func New(data []byte, images fs.FS) (*Catalog, error) {
	var raw []entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode card table: %w", err)
	}

	seen := make(map[int]struct{}, len(raw))
	entries := make([]entry, 0, len(raw))
	for i := range raw {
		if _, dup := seen[raw[i].ID]; dup {
			continue
		}
		seen[raw[i].ID] = struct{}{}
		entries = append(entries, raw[i])
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	index := make(map[int]int, len(entries))
	for i := range entries {
		index[entries[i].ID] = i
	}

	return &Catalog{entries: entries, index: index, images: images}, nil
}

func (c *Catalog) verifyComplete(size int) error {
	if len(c.entries) != size {
		return fmt.Errorf("card table has %d distinct cards, want %d", len(c.entries), size)
	}
	for i := range c.entries {
		if c.entries[i].ID != i {
			return fmt.Errorf("card table missing id %d", i)
		}
	}
	return nil
}

// Len returns the number of distinct cards.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// List returns every card projected to lang in ascending id order,
// without image payloads.
func (c *Catalog) List(lang Language) []Card {
	cards := make([]Card, len(c.entries))
	for i := range c.entries {
		cards[i] = c.entries[i].project(lang)
	}
	return cards
}

// Get returns a single projected card with its image embedded as a
// data URI when one is available.
func (c *Catalog) Get(id int, lang Language) (Card, error) {
	i, ok := c.index[id]
	if !ok {
		return Card{}, fmt.Errorf("%w: %d", ErrCardNotFound, id)
	}
	card := c.entries[i].project(lang)
	if data, mimeType, err := c.Image(id); err == nil {
		card.ImageBase64 = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	}
	return card, nil
}

// Image returns raw image bytes and the MIME type inferred from the
// file extension.
func (c *Catalog) Image(id int) ([]byte, string, error) {
	i, ok := c.index[id]
	if !ok || c.entries[i].Image == "" || c.images == nil {
		return nil, "", fmt.Errorf("%w: card %d", ErrImageNotFound, id)
	}
	data, err := fs.ReadFile(c.images, c.entries[i].Image)
	if err != nil {
		return nil, "", fmt.Errorf("%w: card %d: %v", ErrImageNotFound, id, err)
	}
	mimeType := mime.TypeByExtension(path.Ext(c.entries[i].Image))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

func (e *entry) project(lang Language) Card {
	t := e.text
	if lang == Turkish {
		t = e.text.localized(e.TR)
	}
	return Card{
		ID:              e.ID,
		Name:            t.Name,
		ImageURL:        e.Image,
		Keywords:        append([]string(nil), t.Keywords...),
		MeaningUpright:  t.MeaningUpright,
		MeaningReversed: t.MeaningReversed,
		Description:     t.Description,
		Symbolism:       t.Symbolism,
		YesNoMeaning:    t.YesNoMeaning,
	}
}

// localized overlays the non-empty fields of l on t.
func (t text) localized(l text) text {
	out := t
	if l.Name != "" {
		out.Name = l.Name
	}
	if len(l.Keywords) > 0 {
		out.Keywords = l.Keywords
	}
	if l.MeaningUpright != "" {
		out.MeaningUpright = l.MeaningUpright
	}
	if l.MeaningReversed != "" {
		out.MeaningReversed = l.MeaningReversed
	}
	if l.Description != "" {
		out.Description = l.Description
	}
	if l.Symbolism != "" {
		out.Symbolism = l.Symbolism
	}
	if l.YesNoMeaning != "" {
		out.YesNoMeaning = l.YesNoMeaning
	}
	return out
}
