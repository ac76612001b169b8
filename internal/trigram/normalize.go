package trigram

import (
	"math"

	"github.com/petrarca/trigram-langid/internal/types"
)

// FrequencyBand drops trigrams that carry little discriminative signal
// before a profile is normalized. The zero value keeps every trigram.
type FrequencyBand struct {
	// MinCount drops trigrams counted fewer times than this
	MinCount int `yaml:"min_count" json:"min_count" toml:"min_count"`
	// MaxShare drops trigrams whose share of all counted windows exceeds
	// this fraction; 0 disables the upper bound
	MaxShare float64 `yaml:"max_share" json:"max_share" toml:"max_share"`
}

// Enabled reports whether the band removes anything at all
func (b FrequencyBand) Enabled() bool {
	return b.MinCount > 1 || b.MaxShare > 0
}

// Eligible returns the trigrams of raw that pass the band. raw is only read.
func (b FrequencyBand) Eligible(raw types.RawProfile) []types.Trigram {
	keys := make([]types.Trigram, 0, len(raw.Counts))
	for t, count := range raw.Counts {
		if b.keep(count, raw.Total) {
			keys = append(keys, t)
		}
	}
	return keys
}

func (b FrequencyBand) keep(count, total int) bool {
	if count < b.MinCount {
		return false
	}
	if b.MaxShare > 0 && total > 0 && float64(count)/float64(total) > b.MaxShare {
		return false
	}
	return true
}

// Normalize scales the eligible counts of raw to a unit-length vector.
// A profile with zero magnitude yields an empty map.
func Normalize(raw types.RawProfile, filter FrequencyBand) types.TrigramProfile {
	eligible := filter.Eligible(raw)

	var sumSquares float64
	for _, t := range eligible {
		w := float64(raw.Counts[t])
		sumSquares += w * w
	}

	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return types.TrigramProfile{}
	}

	profile := make(types.TrigramProfile, len(eligible))
	for _, t := range eligible {
		profile[t] = float64(raw.Counts[t]) / norm
	}
	return profile
}
