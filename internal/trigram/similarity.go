package trigram

import "github.com/petrarca/trigram-langid/internal/types"

// WeightBand restricts which text-side weights take part in scoring.
// A weight counts only when it lies strictly between Low and High.
// The zero value accepts every weight.
type WeightBand struct {
	Low  float64 `yaml:"low" json:"low" toml:"low"`
	High float64 `yaml:"high" json:"high" toml:"high"`
}

// DefaultPlausibility excludes text trigrams that are negligible or dominate
// the whole profile
var DefaultPlausibility = WeightBand{Low: 0.01, High: 0.9}

// Enabled reports whether the band restricts anything
func (b WeightBand) Enabled() bool {
	return b != WeightBand{}
}

// Contains reports whether w takes part in scoring
func (b WeightBand) Contains(w float64) bool {
	if !b.Enabled() {
		return true
	}
	return w > b.Low && w < b.High
}

// Similarity returns the dot product of text and lang over their shared
// trigrams, counting only trigrams whose text weight is inside band.
//
// For two unit vectors with non-negative weights the result is in [0, 1].
// The band applies to the text side only. The smaller profile drives the
// loop, in key order, so equal inputs always produce the same sum.
func Similarity(text, lang *types.Profile, band WeightBand) float64 {
	var sum float64

	if text.Len() <= lang.Len() {
		text.Each(func(t types.Trigram, tw float64) bool {
			if !band.Contains(tw) {
				return true
			}
			if lw, ok := lang.Weight(t); ok {
				sum += tw * lw
			}
			return true
		})
		return sum
	}

	lang.Each(func(t types.Trigram, lw float64) bool {
		if tw, ok := text.Weight(t); ok && band.Contains(tw) {
			sum += tw * lw
		}
		return true
	})
	return sum
}
