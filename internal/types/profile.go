package types

import (
	"math"
	"slices"
)

// UnknownLanguage is returned when no language profile matches a text
const UnknownLanguage = "---"

// RawProfile holds unnormalized trigram counts together with the number of
// trigram windows that produced them
type RawProfile struct {
	Counts map[Trigram]int
	Total  int
}

// NewRawProfile returns an empty raw profile ready for counting
func NewRawProfile() RawProfile {
	return RawProfile{Counts: make(map[Trigram]int)}
}

// TrigramProfile maps trigrams to weights. It is a scratch structure; use
// NewProfile to obtain an immutable snapshot that can be shared.
type TrigramProfile map[Trigram]float64

// Profile is an immutable, normalized trigram profile
type Profile struct {
	weights map[Trigram]float64
	keys    []Trigram // ascending
}

// NewProfile copies weights into an immutable Profile. Later changes to the
// source map do not affect the returned value.
func NewProfile(weights TrigramProfile) *Profile {
	p := &Profile{
		weights: make(map[Trigram]float64, len(weights)),
		keys:    make([]Trigram, 0, len(weights)),
	}
	for t, w := range weights {
		p.weights[t] = w
		p.keys = append(p.keys, t)
	}
	slices.SortFunc(p.keys, Trigram.Compare)
	return p
}

// Len returns the number of trigrams in the profile
func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Weight returns the weight of t and whether it is present
func (p *Profile) Weight(t Trigram) (float64, bool) {
	if p == nil {
		return 0, false
	}
	w, ok := p.weights[t]
	return w, ok
}

// Keys returns the trigrams in ascending order. The slice is a copy.
func (p *Profile) Keys() []Trigram {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// Each calls fn for every trigram in ascending order until fn returns false
func (p *Profile) Each(fn func(t Trigram, weight float64) bool) {
	if p == nil {
		return
	}
	for _, t := range p.keys {
		if !fn(t, p.weights[t]) {
			return
		}
	}
}

// Magnitude returns the L2 norm of the profile weights
func (p *Profile) Magnitude() float64 {
	var sum float64
	p.Each(func(_ Trigram, w float64) bool {
		sum += w * w
		return true
	})
	return math.Sqrt(sum)
}

// LanguageProfile is the precomputed fingerprint of one language.
// It is immutable after construction and safe for concurrent use.
type LanguageProfile struct {
	code    string
	name    string
	profile *Profile
}

// NewLanguageProfile builds a LanguageProfile from normalized weights.
// The weights are copied.
func NewLanguageProfile(code, name string, weights TrigramProfile) *LanguageProfile {
	return &LanguageProfile{
		code:    code,
		name:    name,
		profile: NewProfile(weights),
	}
}

// Code returns the short language identifier (e.g. "en")
func (l *LanguageProfile) Code() string {
	return l.code
}

// Name returns the human-readable language name, or the code if unset
func (l *LanguageProfile) Name() string {
	if l.name == "" {
		return l.code
	}
	return l.name
}

// Profile returns the read-only trigram weights
func (l *LanguageProfile) Profile() *Profile {
	return l.profile
}

// LanguageProfiles is an ordered set of candidates. Order decides ties:
// the first profile reaching the best score wins.
type LanguageProfiles []*LanguageProfile

// Codes returns the language codes in candidate order
func (ls LanguageProfiles) Codes() []string {
	codes := make([]string, 0, len(ls))
	for _, l := range ls {
		codes = append(codes, l.Code())
	}
	return codes
}

// Find returns the profile with the given code, or nil
func (ls LanguageProfiles) Find(code string) *LanguageProfile {
	for _, l := range ls {
		if l.Code() == code {
			return l
		}
	}
	return nil
}
