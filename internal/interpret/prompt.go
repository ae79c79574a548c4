// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

import (
	"fmt"
	"strings"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/reading"
)

// SystemPrompt is sent as the system message of every completion.
const SystemPrompt = "You are an expert Tarot interpreter."

var turkishTypeLabels = map[string]string{
	reading.CardOfDay:    "Günün Kartı",
	reading.ClassicTarot: "Klasik Tarot",
	reading.PathOfDay:    "Günün Yolu",
	reading.YesNo:        "Evet/Hayır",
	reading.CouplesTarot: "Çiftler Tarot",
}

var toneGuides = map[catalog.Language]map[Tone]string{
	catalog.English: {
		ToneGentle:       "Tone: gentle, empathetic, non-judgmental.",
		ToneAnalytical:   "Tone: analytical, evidence-based, structured.",
		ToneMotivational: "Tone: motivational, encouraging.",
		ToneSpiritual:    "Tone: intuitive, calm, avoid determinism.",
		ToneDirect:       "Tone: direct, concise, no beating around the bush.",
	},
	catalog.Turkish: {
		ToneGentle:       "Üslup: nazik, empatik, yargısız.",
		ToneAnalytical:   "Üslup: analitik, kanıtsal, net yapı.",
		ToneMotivational: "Üslup: motive edici, cesaretlendiren.",
		ToneSpiritual:    "Üslup: sezgisel, ritüel/dingin dil; aşırı determinizmden kaçın.",
		ToneDirect:       "Üslup: doğrudan, kısa ve net; dolandırmadan öner.",
	},
}

// promptCopy holds the fixed per-language lines of the user prompt.
type promptCopy struct {
	languageName string
	question     string
	reversed     string
	keywords     string
	summary      string
	lengthGuide  string
	format       string
	avoid        string
	respondIn    string
}

var promptCopies = map[catalog.Language]promptCopy{
	catalog.English: {
		languageName: "English",
		question:     "Question: ",
		reversed:     " (Reversed)",
		keywords:     "Keywords",
		summary:      "Summary",
		lengthGuide:  "About %d words (±20%%).",
		format:       "Format: 1-sentence 'theme of the day' + 3 short bullets (Love/Work/Money) + 1 closing sentence.",
		avoid:        "Avoid deterministic/fear language. Provide actionable, kind guidance.",
		respondIn:    "Please respond in English.",
	},
	catalog.Turkish: {
		languageName: "Türkçe",
		question:     "Soru: ",
		reversed:     " (Ters)",
		keywords:     "Anahtar kelimeler",
		summary:      "Özet",
		lengthGuide:  "Yaklaşık %d kelime (±%%20).",
		format:       "Biçim: 1 cümle 'bugünün teması' + 3 kısa madde (Aşk/İş/Para) + 1 onay cümlesi.",
		avoid:        "Kaçın: kesin kader söylemleri, korku dili. Öner: uygulanabilir, nazik rehberlik.",
		respondIn:    "Lütfen yanıtı Türkçe yaz.",
	},
}

// BuildPrompt renders the user message for a reading. Tone and length
// are coerced the same way Interpret does.
func BuildPrompt(req Request) string {
	lang := catalog.ParseLanguage(string(req.Language))
	pc := promptCopies[lang]
	tone := ParseTone(string(req.Tone))
	length := ParseLength(string(req.Length))

	typeLabel := req.ReadingType
	if lang == catalog.Turkish {
		if label, ok := turkishTypeLabels[req.ReadingType]; ok {
			typeLabel = label
		}
	}

	lines := []string{
		"Okuma türü: " + typeLabel,
		"Dil: " + pc.languageName,
	}
	if req.Question != "" {
		lines = append(lines, pc.question+req.Question)
	}
	lines = append(lines, "Kartlar:")

	for i, dc := range req.Cards {
		position := dc.Position
		if position == "" {
			position = fmt.Sprintf("Card %d", i+1)
		}
		suffix := ""
		if dc.Reversed {
			suffix = pc.reversed
		}
		keywords := dc.Card.Keywords
		if len(keywords) > 4 {
			keywords = keywords[:4]
		}
		lines = append(lines, fmt.Sprintf("- %s: %s%s | %s: %s | %s: %s",
			position, dc.Card.Name, suffix,
			pc.keywords, strings.Join(keywords, ", "),
			pc.summary, dc.Card.Meaning(dc.Reversed)))
	}

	lines = append(lines,
		toneGuides[lang][tone],
		fmt.Sprintf(pc.lengthGuide, length.TargetWords()),
		pc.format,
		pc.avoid,
		pc.respondIn,
	)
	return strings.Join(lines, "\n")
}
