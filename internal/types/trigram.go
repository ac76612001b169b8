package types

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

// TrigramSize is the number of code points in a trigram
const TrigramSize = 3

// Trigram is a run of exactly three Unicode code points
type Trigram [TrigramSize]rune

// ParseTrigram converts a string of exactly three code points into a Trigram
func ParseTrigram(s string) (Trigram, error) {
	var t Trigram
	if utf8.RuneCountInString(s) != TrigramSize {
		return t, fmt.Errorf("trigram %q must have exactly %d code points", s, TrigramSize)
	}
	i := 0
	for _, r := range s {
		t[i] = r
		i++
	}
	return t, nil
}

// MustParseTrigram is like ParseTrigram but panics on invalid input
func MustParseTrigram(s string) Trigram {
	t, err := ParseTrigram(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the UTF-8 encoding of the trigram
func (t Trigram) String() string {
	return string(t[:])
}

// Compare orders trigrams by code point, first rune first
func (t Trigram) Compare(other Trigram) int {
	return slices.Compare(t[:], other[:])
}

// Text is an ordered sequence of lines as read from a document.
// Lines may still carry a trailing carriage return.
type Text []string
