// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

// Package interpret turns a drawn spread into interpretation text.
//
// An Engine prefers a language-model Generator and falls back to the
// deterministic templates in RuleText whenever the generator is absent,
// bypassed, or fails. Interpret never returns an error; the Mode it
// reports says which path produced the text.
package interpret

import (
	"context"
	"errors"
	"strings"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/logging"
	"github.com/tomtom215/arcana/internal/reading"
)

// Generator produces free-form text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request carries everything needed to interpret one spread.
type Request struct {
	ReadingType string
	Cards       []reading.DrawnCard
	Question    string
	Language    catalog.Language
	Tone        Tone
	Length      Length

	// BypassAI forces the rule-based path for this request.
	BypassAI bool
}

// Engine selects between the AI and rule-based paths.
type Engine struct {
	generator Generator
}

// NewEngine returns an Engine. A nil generator means every request is
// answered from the templates.
func NewEngine(g Generator) *Engine {
	return &Engine{generator: g}
}

// AIEnabled reports whether the engine has a generator configured.
func (e *Engine) AIEnabled() bool {
	return e.generator != nil
}

// Interpret produces interpretation text and the mode that produced it.
func (e *Engine) Interpret(ctx context.Context, req Request) (string, reading.Mode) {
	req.Language = catalog.ParseLanguage(string(req.Language))
	req.Tone = ParseTone(string(req.Tone))
	req.Length = ParseLength(string(req.Length))

	if e.generator == nil || req.BypassAI {
		return e.rules(ctx, req), reading.ModeRule
	}

	text, err := e.generator.Generate(ctx, BuildPrompt(req))
	if err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return TrimToLength(text, req.Length), reading.ModeAI
		}
		err = ErrEmptyCompletion
	}

	logging.Ctx(ctx).Warn().
		Err(err).
		Str("reading_type", req.ReadingType).
		Bool("rate_limited", errors.Is(err, ErrRateLimited)).
		Msg("AI interpretation failed, falling back")
	return e.rules(ctx, req), reading.ModeFallback
}

func (e *Engine) rules(ctx context.Context, req Request) string {
	text, err := RuleText(req)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("reading_type", req.ReadingType).Msg("No template for reading type")
	}
	return text
}
