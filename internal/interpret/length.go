// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package interpret

import "strings"

// TrimToLength shortens text that exceeds l.MaxWords(). It keeps whole
// period-delimited sentences while their combined word count fits and
// re-terminates with a period. If not even the first sentence fits, the
// first MaxWords words are returned as-is. Short text is never padded.
func TrimToLength(text string, l Length) string {
	maxWords := l.MaxWords()
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}

	var kept []string
	count := 0
	for _, piece := range strings.Split(strings.ReplaceAll(text, "\n", " "), ".") {
		sentence := strings.TrimSpace(piece)
		if sentence == "" {
			continue
		}
		wc := len(strings.Fields(sentence))
		if count+wc > maxWords {
			break
		}
		kept = append(kept, sentence)
		count += wc
	}

	if out := strings.Join(kept, ". "); out != "" {
		if !strings.HasSuffix(out, ".") {
			out += "."
		}
		return out
	}
	return strings.Join(words[:maxWords], " ")
}
