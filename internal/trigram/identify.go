package trigram

import "github.com/petrarca/trigram-langid/internal/types"

// Options tune the identification pipeline
type Options struct {
	// MaxTrigrams caps the windows counted per text; <= 0 means unlimited
	MaxTrigrams int
	// Filter is applied to the text profile before normalization
	Filter FrequencyBand
	// Plausibility restricts which text weights contribute to a score
	Plausibility WeightBand
}

// DefaultOptions returns the settings the reference profiles were tuned for
func DefaultOptions() Options {
	return Options{
		MaxTrigrams:  DefaultMaxTrigrams,
		Plausibility: DefaultPlausibility,
	}
}

// Score is the similarity of a text to one candidate language
type Score struct {
	Code  string  `json:"code" yaml:"code" toml:"code"`
	Score float64 `json:"score" yaml:"score" toml:"score"`
}

// Identifier selects the best matching language for a text.
// It holds no state besides its options and is safe for concurrent use.
type Identifier struct {
	opts Options
}

// NewIdentifier creates an identifier with the given options
func NewIdentifier(opts Options) *Identifier {
	return &Identifier{opts: opts}
}

// Options returns the identifier configuration
func (id *Identifier) Options() Options {
	return id.opts
}

// Profile builds the normalized profile of text
func (id *Identifier) Profile(text types.Text) *types.Profile {
	raw := Extract(text, id.opts.MaxTrigrams)
	return types.NewProfile(Normalize(raw, id.opts.Filter))
}

// Identify returns the code of the language whose profile scores highest
// for text, or types.UnknownLanguage when no candidate scores above zero.
//
// Candidates are scored in order and the running best only changes on a
// strictly greater score, so the first of several tied candidates wins.
func (id *Identifier) Identify(text types.Text, langs types.LanguageProfiles) string {
	return id.Best(text, langs).Code
}

// Best is like Identify but also returns the winning score
func (id *Identifier) Best(text types.Text, langs types.LanguageProfiles) Score {
	if len(langs) == 0 {
		return Score{Code: types.UnknownLanguage}
	}
	return id.Select(id.Profile(text), langs)
}

// Select picks the best candidate for an already built text profile
func (id *Identifier) Select(profile *types.Profile, langs types.LanguageProfiles) Score {
	best := Score{Code: types.UnknownLanguage}
	if profile.Len() == 0 {
		return best
	}

	for _, lang := range langs {
		score := Similarity(profile, lang.Profile(), id.opts.Plausibility)
		if score > best.Score {
			best = Score{Code: lang.Code(), Score: score}
		}
	}
	return best
}

// Scores returns the raw similarity of text to every candidate, in
// candidate order
func (id *Identifier) Scores(text types.Text, langs types.LanguageProfiles) []Score {
	return id.Rank(id.Profile(text), langs)
}

// Rank scores profile against every candidate, in candidate order
func (id *Identifier) Rank(profile *types.Profile, langs types.LanguageProfiles) []Score {
	scores := make([]Score, 0, len(langs))
	for _, lang := range langs {
		scores = append(scores, Score{
			Code:  lang.Code(),
			Score: Similarity(profile, lang.Profile(), id.opts.Plausibility),
		})
	}
	return scores
}

// IdentifyLanguage identifies text with DefaultOptions
func IdentifyLanguage(text types.Text, langs types.LanguageProfiles) string {
	return NewIdentifier(DefaultOptions()).Identify(text, langs)
}
