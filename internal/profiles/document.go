// Package profiles loads, builds and writes the per-language trigram
// profiles the identifier compares texts against.
package profiles

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/petrarca/trigram-langid/internal/trigram"
	"github.com/petrarca/trigram-langid/internal/types"
)

// Document is the serialized form of one language profile: raw trigram
// counts keyed by their UTF-8 text
type Document struct {
	Code     string         `json:"code" yaml:"code" toml:"code"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Total    int            `json:"total,omitempty" yaml:"total,omitempty" toml:"total,omitempty"`
	Trigrams map[string]int `json:"trigrams" yaml:"trigrams" toml:"trigrams"`
}

// Raw converts the document to a RawProfile. Keys that are not exactly
// three code points are returned separately and left out of the profile.
func (d Document) Raw() (types.RawProfile, []string) {
	raw := types.NewRawProfile()
	var invalid []string

	sum := 0
	for key, count := range d.Trigrams {
		t, err := types.ParseTrigram(key)
		if err != nil || count < 0 {
			invalid = append(invalid, key)
			continue
		}
		raw.Counts[t] += count
		sum += count
	}

	raw.Total = d.Total
	if raw.Total < sum {
		raw.Total = sum
	}

	sort.Strings(invalid)
	return raw, invalid
}

// LanguageProfile normalizes the document into an immutable profile
func (d Document) LanguageProfile(filter trigram.FrequencyBand, logger *slog.Logger) (*types.LanguageProfile, error) {
	if d.Code == "" {
		return nil, fmt.Errorf("profile has no language code")
	}

	raw, invalid := d.Raw()
	if len(invalid) > 0 && logger != nil {
		logger.Debug("Ignoring invalid trigram keys", "code", d.Code, "count", len(invalid), "keys", invalid)
	}

	weights := trigram.Normalize(raw, filter)
	if len(weights) == 0 && logger != nil {
		logger.Warn("Profile has no usable trigrams", "code", d.Code)
	}

	return types.NewLanguageProfile(d.Code, d.Name, weights), nil
}

// Build counts the trigrams of a training corpus into a Document.
// Every window of every text is counted; filter drops rare and
// near-universal trigrams from the stored counts.
func Build(code, name string, texts []types.Text, filter trigram.FrequencyBand) Document {
	combined := types.NewRawProfile()
	for _, text := range texts {
		raw := trigram.Extract(text, 0)
		for t, count := range raw.Counts {
			combined.Counts[t] += count
		}
		combined.Total += raw.Total
	}

	doc := Document{
		Code:     code,
		Name:     name,
		Total:    combined.Total,
		Trigrams: make(map[string]int),
	}
	for _, t := range filter.Eligible(combined) {
		doc.Trigrams[t.String()] = combined.Counts[t]
	}
	return doc
}

// sortedKeys returns the document trigrams by descending count, then key
func (d Document) sortedKeys() []string {
	keys := make([]string, 0, len(d.Trigrams))
	for k := range d.Trigrams {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if d.Trigrams[keys[i]] != d.Trigrams[keys[j]] {
			return d.Trigrams[keys[i]] > d.Trigrams[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
