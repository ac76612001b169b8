package trigram

import (
	"strings"
	"testing"

	"github.com/petrarca/trigram-langid/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tri(s string) types.Trigram {
	return types.MustParseTrigram(s)
}

func counts(raw types.RawProfile) map[string]int {
	out := make(map[string]int, len(raw.Counts))
	for t, c := range raw.Counts {
		out[t.String()] = c
	}
	return out
}

func sumSquares(p types.TrigramProfile) float64 {
	var sum float64
	for _, w := range p {
		sum += w * w
	}
	return sum
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		text      types.Text
		max       int
		expected  map[string]int
		wantTotal int
	}{
		{
			name:      "five code points",
			text:      types.Text{"abcde"},
			max:       DefaultMaxTrigrams,
			expected:  map[string]int{"abc": 1, "bcd": 1, "cde": 1},
			wantTotal: 3,
		},
		{
			name:     "line too short",
			text:     types.Text{"ab"},
			max:      DefaultMaxTrigrams,
			expected: map[string]int{},
		},
		{
			name:     "empty text",
			text:     types.Text{},
			max:      DefaultMaxTrigrams,
			expected: map[string]int{},
		},
		{
			name:      "carriage return stripped once",
			text:      types.Text{"abc\r"},
			max:       DefaultMaxTrigrams,
			expected:  map[string]int{"abc": 1},
			wantTotal: 1,
		},
		{
			name:      "only one carriage return stripped",
			text:      types.Text{"ab\r\r"},
			max:       DefaultMaxTrigrams,
			expected:  map[string]int{"ab\r": 1},
			wantTotal: 1,
		},
		{
			name:      "repeated windows are counted",
			text:      types.Text{"aaaa", "aaa"},
			max:       DefaultMaxTrigrams,
			expected:  map[string]int{"aaa": 3},
			wantTotal: 3,
		},
		{
			name:      "multibyte code points",
			text:      types.Text{"çığü"},
			max:       DefaultMaxTrigrams,
			expected:  map[string]int{"çığ": 1, "ığü": 1},
			wantTotal: 2,
		},
		{
			name:      "short lines skipped between long ones",
			text:      types.Text{"abc", "", "x", "xyz"},
			max:       DefaultMaxTrigrams,
			expected:  map[string]int{"abc": 1, "xyz": 1},
			wantTotal: 2,
		},
		{
			name:      "cap stops mid line",
			text:      types.Text{"abcdef", "abcdef", "abcdef"},
			max:       5,
			expected:  map[string]int{"abc": 2, "bcd": 1, "cde": 1, "def": 1},
			wantTotal: 5,
		},
		{
			name:      "unlimited cap",
			text:      types.Text{"abcdef", "abcdef"},
			max:       0,
			expected:  map[string]int{"abc": 2, "bcd": 2, "cde": 2, "def": 2},
			wantTotal: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := Extract(tt.text, tt.max)
			assert.Equal(t, tt.expected, counts(raw))
			assert.Equal(t, tt.wantTotal, raw.Total)
		})
	}
}

func TestExtract_CapIsExact(t *testing.T) {
	text := make(types.Text, 0, 100)
	for i := 0; i < 100; i++ {
		text = append(text, strings.Repeat("lorem ipsum ", 3))
	}

	for _, limit := range []int{1, 7, 33, 600} {
		raw := Extract(text, limit)
		assert.Equal(t, limit, raw.Total)

		var sum int
		for _, c := range raw.Counts {
			sum += c
		}
		assert.Equal(t, limit, sum, "counts must add up to the cap")
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	raw := Extract(types.Text{"ab\xffcd", "hello"}, DefaultMaxTrigrams)

	assert.Equal(t, 6, raw.Total, "a bad byte must not abort extraction")
	assert.Equal(t, 1, raw.Counts[types.Trigram{'a', 'b', '\uFFFD'}])
	assert.Equal(t, 1, raw.Counts[tri("hel")])
}

func TestNormalize(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		texts := []types.Text{
			{"abcde"},
			{"the quick brown fox jumps over the lazy dog"},
			{"aaaaaaa", "abababab", "xyz"},
		}
		for _, text := range texts {
			p := Normalize(Extract(text, DefaultMaxTrigrams), FrequencyBand{})
			require.NotEmpty(t, p)
			assert.InDelta(t, 1.0, sumSquares(p), 1e-6)
			for _, w := range p {
				assert.True(t, w > 0 && w <= 1)
			}
		}
	})

	t.Run("empty profile stays empty", func(t *testing.T) {
		p := Normalize(types.NewRawProfile(), FrequencyBand{})
		assert.Empty(t, p)
		assert.NotNil(t, p)
	})

	t.Run("zero counts are not divided", func(t *testing.T) {
		raw := types.RawProfile{Counts: map[types.Trigram]int{tri("abc"): 0}}
		assert.Empty(t, Normalize(raw, FrequencyBand{}))
	})

	t.Run("weights proportional to counts", func(t *testing.T) {
		raw := types.RawProfile{
			Counts: map[types.Trigram]int{tri("abc"): 3, tri("bcd"): 4},
			Total:  7,
		}
		p := Normalize(raw, FrequencyBand{})
		assert.InDelta(t, 0.6, p[tri("abc")], 1e-9)
		assert.InDelta(t, 0.8, p[tri("bcd")], 1e-9)
	})

	t.Run("raw counts untouched", func(t *testing.T) {
		raw := types.RawProfile{
			Counts: map[types.Trigram]int{tri("abc"): 1, tri("bcd"): 4},
			Total:  5,
		}
		Normalize(raw, FrequencyBand{MinCount: 2})
		assert.Len(t, raw.Counts, 2)
	})
}

func TestFrequencyBand(t *testing.T) {
	raw := types.RawProfile{
		Counts: map[types.Trigram]int{
			tri("   "): 60, // near-universal
			tri("the"): 20,
			tri("ing"): 19,
			tri("zzq"): 1, // noise
		},
		Total: 100,
	}

	tests := []struct {
		name     string
		band     FrequencyBand
		expected []string
	}{
		{"disabled", FrequencyBand{}, []string{"   ", "ing", "the", "zzq"}},
		{"min count", FrequencyBand{MinCount: 2}, []string{"   ", "ing", "the"}},
		{"max share", FrequencyBand{MaxShare: 0.5}, []string{"ing", "the", "zzq"}},
		{"both", FrequencyBand{MinCount: 2, MaxShare: 0.5}, []string{"ing", "the"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(raw, tt.band)
			got := make([]string, 0, len(p))
			for k := range p {
				got = append(got, k.String())
			}
			assert.ElementsMatch(t, tt.expected, got)
			assert.InDelta(t, 1.0, sumSquares(p), 1e-6)
		})
	}

	assert.False(t, FrequencyBand{}.Enabled())
	assert.False(t, FrequencyBand{MinCount: 1}.Enabled())
	assert.True(t, FrequencyBand{MinCount: 2}.Enabled())
}

func TestFrequencyBand_EverythingFiltered(t *testing.T) {
	raw := Extract(types.Text{"abcdefgh"}, 0)
	p := Normalize(raw, FrequencyBand{MinCount: 2})
	assert.Empty(t, p)
}

func profileOf(text ...string) *types.Profile {
	return types.NewProfile(Normalize(Extract(text, DefaultMaxTrigrams), FrequencyBand{}))
}

func TestSimilarity(t *testing.T) {
	t.Run("unfiltered self similarity", func(t *testing.T) {
		for _, text := range []string{"abcde", "hello world", "aaaaab", "ünïcödé text"} {
			p := profileOf(text)
			assert.InDelta(t, 1.0, Similarity(p, p, WeightBand{}), 1e-6, text)
		}
	})

	t.Run("disjoint profiles", func(t *testing.T) {
		assert.Zero(t, Similarity(profileOf("abcde"), profileOf("vwxyz"), WeightBand{}))
	})

	t.Run("empty profiles", func(t *testing.T) {
		empty := types.NewProfile(nil)
		assert.Zero(t, Similarity(empty, profileOf("abcde"), WeightBand{}))
		assert.Zero(t, Similarity(profileOf("abcde"), empty, WeightBand{}))
	})

	t.Run("bounded", func(t *testing.T) {
		a := profileOf("the cat sat on the mat")
		b := profileOf("the dog sat on the log")
		s := Similarity(a, b, WeightBand{})
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	})

	t.Run("band applies to the text side only", func(t *testing.T) {
		// text has a single trigram with weight 1.0, outside (0.01, 0.9)
		text := profileOf("abc")
		lang := profileOf("abcd")
		assert.Zero(t, Similarity(text, lang, DefaultPlausibility))
		assert.Greater(t, Similarity(lang, text, DefaultPlausibility), 0.0)
	})

	t.Run("band bounds are exclusive", func(t *testing.T) {
		text := types.NewProfile(types.TrigramProfile{tri("abc"): 0.6, tri("bcd"): 0.8})
		lang := types.NewProfile(types.TrigramProfile{tri("abc"): 1})
		assert.Zero(t, Similarity(text, lang, WeightBand{Low: 0.6, High: 0.9}))
		assert.InDelta(t, 0.6, Similarity(text, lang, WeightBand{Low: 0.5, High: 0.9}), 1e-12)
	})

	t.Run("larger text drives through the language side", func(t *testing.T) {
		text := types.NewProfile(types.TrigramProfile{
			tri("abc"): 0.5, tri("bcd"): 0.5, tri("cde"): 0.5, tri("def"): 0.5,
		})
		lang := types.NewProfile(types.TrigramProfile{tri("bcd"): 0.6, tri("xyz"): 0.8})
		assert.InDelta(t, 0.3, Similarity(text, lang, DefaultPlausibility), 1e-12)
	})
}

func TestSimilarity_OrderInvariant(t *testing.T) {
	keys := []string{"abc", "bcd", "cde", "def", "efg", "fgh"}

	forward := types.RawProfile{Counts: map[types.Trigram]int{}}
	for i, k := range keys {
		forward.Counts[tri(k)] = i + 1
	}
	backward := types.RawProfile{Counts: map[types.Trigram]int{}}
	for i := len(keys) - 1; i >= 0; i-- {
		backward.Counts[tri(keys[i])] = i + 1
	}

	lang := profileOf("abcdefgh xyz")
	a := Similarity(types.NewProfile(Normalize(forward, FrequencyBand{})), lang, WeightBand{})

	for i := 0; i < 20; i++ {
		b := Similarity(types.NewProfile(Normalize(backward, FrequencyBand{})), lang, WeightBand{})
		assert.Equal(t, a, b)
	}

	text := types.NewProfile(Normalize(forward, FrequencyBand{}))
	assert.InDelta(t, Similarity(lang, text, WeightBand{}), a, 1e-12, "unfiltered score is symmetric")
}
