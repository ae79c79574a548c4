// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/arcana/internal/catalog"
	"github.com/tomtom215/arcana/internal/reading"
)

// ErrUnsupportedReadingType is returned by RuleText for reading types
// without a template.
var ErrUnsupportedReadingType = errors.New("unsupported reading type")

// ruleCopy holds the fixed per-language fragments of the templates.
type ruleCopy struct {
	reversed string

	cardOfDayIntro string
	cardOfDayFocus string

	classicHeader  string
	classicClosing string

	pathHeader string
	pathFocus  string
	pathAreas  []string

	couplesHeader  string
	couplesRelates string
	couplesAspects []string

	yesNoDefaultQuestion string
	yesNoNo              string
	yesNoTemplate        string

	unsupported string
}

var ruleCopies = map[catalog.Language]ruleCopy{
	catalog.English: {
		reversed:       " (Reversed)",
		cardOfDayIntro: "Your card for today is %s%s.\n\n%s\n\n",
		cardOfDayFocus: "This card suggests that today you should focus on %s. %s",
		classicHeader:  "**Classic Three-Card Reading**\n\n",
		classicClosing: "**Health Advice**: Focus on balance and listen to your body's needs. " +
			"The cards suggest paying attention to both physical and emotional well-being.",
		pathHeader: "**Path of the Day - Four Areas Reading**\n\n",
		pathFocus:  "Focus on %s today.\n\n",
		pathAreas: []string{
			"work environment",
			"financial decisions",
			"romantic connections",
			"overall life direction",
		},
		couplesHeader:  "**Couples Tarot Reading**\n\n",
		couplesRelates: "This relates to %s.\n\n",
		couplesAspects: []string{
			"your emotional state in the relationship",
			"your partner's perspective and feelings",
			"the current dynamic between you both",
			"obstacles that need attention",
			"the potential future of your relationship",
		},
		yesNoDefaultQuestion: "Your question",
		yesNoNo:              "No",
		yesNoTemplate:        "**Question**: %s\n\n**Answer**: %s\n\n**Card**: %s%s\n\n**Reasoning**: %s",
		unsupported:          "Sorry, an interpretation could not be generated for this reading.",
	},
	catalog.Turkish: {
		reversed:       " (Ters)",
		cardOfDayIntro: "Bugünün kartınız %s%s.\n\n%s\n\n",
		cardOfDayFocus: "Bu kart bugün %s konularına odaklanmanız gerektiğini önerir. %s",
		classicHeader:  "**Klasik Üç Kart Falı**\n\n",
		classicClosing: "**Sağlık Önerisi**: Dengeye odaklanın ve vücudunuzun ihtiyaçlarını dinleyin. " +
			"Kartlar hem fiziksel hem de duygusal sağlığa dikkat etmenizi öneriyor.",
		pathHeader: "**Günün Yolu - Dört Alan Falı**\n\n",
		pathFocus:  "Bugün %s odaklanın.\n\n",
		pathAreas: []string{
			"iş ortamına",
			"finansal kararlara",
			"romantik bağlantılara",
			"genel yaşam yönüne",
		},
		couplesHeader:  "**Çiftler Tarot Falı**\n\n",
		couplesRelates: "Bu %s ile ilgilidir.\n\n",
		couplesAspects: []string{
			"ilişkideki duygusal durumunuz",
			"partnerinizin perspektifi ve hisleri",
			"ikiniz arasındaki mevcut dinamik",
			"dikkat gerektiren engeller",
			"ilişkinizin potansiyel geleceği",
		},
		yesNoDefaultQuestion: "Sorunuz",
		yesNoNo:              "Hayır",
		yesNoTemplate:        "**Soru**: %s\n\n**Cevap**: %s\n\n**Kart**: %s%s\n\n**Gerekçe**: %s",
		unsupported:          "Üzgünüz, bu okuma için bir yorum oluşturulamadı.",
	},
}

// RuleText renders the deterministic template for a reading. For an
// unknown reading type it returns a generic apology in the requested
// language together with ErrUnsupportedReadingType.
func RuleText(req Request) (string, error) {
	rc := ruleCopies[catalog.ParseLanguage(string(req.Language))]
	if len(req.Cards) == 0 {
		return rc.unsupported, fmt.Errorf("%w: %q has no cards", ErrUnsupportedReadingType, req.ReadingType)
	}

	switch req.ReadingType {
	case reading.CardOfDay:
		return rc.cardOfDay(req.Cards[0]), nil
	case reading.ClassicTarot:
		return rc.spread(rc.classicHeader, req.Cards, nil, "") + rc.classicClosing, nil
	case reading.PathOfDay:
		return rc.spread(rc.pathHeader, req.Cards, rc.pathAreas, rc.pathFocus), nil
	case reading.CouplesTarot:
		return rc.spread(rc.couplesHeader, req.Cards, rc.couplesAspects, rc.couplesRelates), nil
	case reading.YesNo:
		return rc.yesNo(req.Question, req.Cards[0]), nil
	default:
		return rc.unsupported, fmt.Errorf("%w: %q", ErrUnsupportedReadingType, req.ReadingType)
	}
}

func (rc ruleCopy) suffix(dc reading.DrawnCard) string {
	if dc.Reversed {
		return rc.reversed
	}
	return ""
}

func (rc ruleCopy) cardOfDay(dc reading.DrawnCard) string {
	keywords := dc.Card.Keywords
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}
	return fmt.Sprintf(rc.cardOfDayIntro, dc.Card.Name, rc.suffix(dc), dc.Card.Meaning(dc.Reversed)) +
		fmt.Sprintf(rc.cardOfDayFocus, strings.Join(keywords, ", "), dc.Card.Description)
}

// spread renders one bold heading plus meaning per card. When notes is
// non-nil, each card is followed by noteFormat applied to the note at the
// same index; cards past the end of notes get none.
func (rc ruleCopy) spread(header string, cards []reading.DrawnCard, notes []string, noteFormat string) string {
	var b strings.Builder
	b.WriteString(header)
	for i, dc := range cards {
		fmt.Fprintf(&b, "**%s: %s%s**\n%s\n", dc.Position, dc.Card.Name, rc.suffix(dc), dc.Card.Meaning(dc.Reversed))
		switch {
		case notes == nil:
			b.WriteString("\n")
		case i < len(notes):
			fmt.Fprintf(&b, noteFormat, notes[i])
		}
	}
	return b.String()
}

func (rc ruleCopy) yesNo(question string, dc reading.DrawnCard) string {
	if question == "" {
		question = rc.yesNoDefaultQuestion
	}
	answer := dc.Card.YesNoMeaning
	if dc.Reversed {
		answer = rc.yesNoNo
	}
	return fmt.Sprintf(rc.yesNoTemplate, question, answer, dc.Card.Name, rc.suffix(dc), dc.Card.Meaning(dc.Reversed))
}
