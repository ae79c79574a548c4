// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/reading"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
	calls  int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.text, s.err
}

func TestEngine_NoGeneratorUsesRules(t *testing.T) {
	e := NewEngine(nil)
	if e.AIEnabled() {
		t.Error("AIEnabled() = true without a generator")
	}
	for _, rt := range reading.Types() {
		cards := drawSpread(t, rt.ID, catalog.English)
		text, mode := e.Interpret(context.Background(), Request{ReadingType: rt.ID, Cards: cards})
		if mode != reading.ModeRule {
			t.Errorf("%s: mode = %s, want rule", rt.ID, mode)
		}
		if !strings.Contains(text, cards[0].Card.Name) {
			t.Errorf("%s: text does not name the first card", rt.ID)
		}
	}
}

func TestEngine_BypassSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{text: "ai text"}
	e := NewEngine(gen)
	_, mode := e.Interpret(context.Background(), Request{
		ReadingType: reading.CardOfDay,
		Cards:       drawSpread(t, reading.CardOfDay, catalog.English),
		BypassAI:    true,
	})
	if mode != reading.ModeRule {
		t.Errorf("mode = %s, want rule", mode)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestEngine_AIPathTrimsOutput(t *testing.T) {
	gen := &stubGenerator{text: sentences(50, 10)}
	e := NewEngine(gen)
	text, mode := e.Interpret(context.Background(), Request{
		ReadingType: reading.CardOfDay,
		Cards:       drawSpread(t, reading.CardOfDay, catalog.Turkish),
		Language:    catalog.Turkish,
		Tone:        ToneSpiritual,
		Length:      LengthShort,
	})
	if mode != reading.ModeAI {
		t.Fatalf("mode = %s, want ai", mode)
	}
	if n := len(strings.Fields(text)); n > 120 {
		t.Errorf("AI text has %d words, want <= 120", n)
	}
	if !strings.HasSuffix(text, ".") {
		t.Error("trimmed AI text should end with a period")
	}
	if !strings.Contains(gen.prompt, "Okuma türü: Günün Kartı") || !strings.Contains(gen.prompt, "Yaklaşık 100 kelime") {
		t.Errorf("prompt not localized:\n%s", gen.prompt)
	}
}

func TestEngine_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"error", &stubGenerator{err: errors.New("provider down")}},
		{"blank text", &stubGenerator{text: "  \n "}},
		{"rate limited", &stubGenerator{err: ErrRateLimited}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := drawSpread(t, reading.YesNo, catalog.English)
			text, mode := NewEngine(tt.gen).Interpret(context.Background(), Request{
				ReadingType: reading.YesNo,
				Cards:       cards,
				Question:    "Will it rain?",
			})
			if mode != reading.ModeFallback {
				t.Errorf("mode = %s, want fallback", mode)
			}
			if !strings.Contains(text, "**Question**: Will it rain?") {
				t.Errorf("fallback text = %q", text)
			}
		})
	}
}

func TestEngine_ChatClientServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewEngine(NewChatClient(testAIConfig(srv.URL), srv.Client()))
	if !e.AIEnabled() {
		t.Fatal("AIEnabled() = false with a chat client")
	}
	cards := drawSpread(t, reading.ClassicTarot, catalog.English)
	text, mode := e.Interpret(context.Background(), Request{ReadingType: reading.ClassicTarot, Cards: cards})
	if mode != reading.ModeFallback {
		t.Errorf("mode = %s, want fallback", mode)
	}
	if !strings.HasPrefix(text, "**Classic Three-Card Reading**") {
		t.Errorf("text = %.40q, want rule template", text)
	}
}
