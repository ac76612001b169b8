// Package trigram implements character-trigram language identification:
// extraction of trigram counts from text, L2 normalization, filtered cosine
// similarity against precomputed language profiles and best-match selection.
//
// Every function in this package is pure and safe for concurrent use.
package trigram

import (
	"strings"

	"github.com/petrarca/trigram-langid/internal/types"
)

// DefaultMaxTrigrams bounds the number of trigram windows counted per text
const DefaultMaxTrigrams = 600

// Extract counts the trigram windows of text.
//
// One trailing carriage return is stripped from each line. Lines shorter
// than three code points are skipped. Invalid UTF-8 decodes to U+FFFD.
// Counting stops as soon as maxTrigrams windows have been tallied, even in
// the middle of a line; maxTrigrams <= 0 means no limit.
func Extract(text types.Text, maxTrigrams int) types.RawProfile {
	raw := types.NewRawProfile()

	for _, line := range text {
		line = strings.TrimSuffix(line, "\r")

		runes := []rune(line)
		if len(runes) < types.TrigramSize {
			continue
		}

		for i := 0; i+types.TrigramSize <= len(runes); i++ {
			if maxTrigrams > 0 && raw.Total >= maxTrigrams {
				return raw
			}
			raw.Counts[types.Trigram{runes[i], runes[i+1], runes[i+2]}]++
			raw.Total++
		}
	}

	return raw
}
