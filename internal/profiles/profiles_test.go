package profiles

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/petrarca/trigram-langid/internal/provider"
	"github.com/petrarca/trigram-langid/internal/trigram"
	"github.com/petrarca/trigram-langid/internal/types"
	"github.com/petrarca/trigram-langid/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Code:  "en",
		Name:  "English",
		Total: 40,
		Trigrams: map[string]int{
			"the":   12,
			" th":   10,
			"a,b":   3, // needs quoting in CSV
			"\"x\"": 2,
			"ñan":   1,
		},
	}
}

func TestCodec_PreservesTrigrams(t *testing.T) {
	doc := sampleDocument()

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(format, doc)
			require.NoError(t, err)

			decoded, err := Decode(format, data)
			require.NoError(t, err)
			assert.Equal(t, doc.Trigrams, decoded.Trigrams)

			if format == FormatCSV {
				// CSV has no header fields; total is recomputed from counts
				assert.Equal(t, 28, decoded.Total)
				assert.Empty(t, decoded.Code)
			} else {
				assert.Equal(t, doc.Code, decoded.Code)
				assert.Equal(t, doc.Name, decoded.Name)
				assert.Equal(t, doc.Total, decoded.Total)
			}
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	doc, err := Decode(FormatCSV, []byte("trigram,count\nthe,5\n th, 3\nthe,1\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"the": 6, " th": 3}, doc.Trigrams)
	assert.Equal(t, 9, doc.Total)

	_, err = Decode(FormatCSV, []byte("the,many\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid count")

	_, err = Decode(FormatCSV, []byte("the,1,2\n"))
	assert.Error(t, err)
}

func TestEncodeCSV_SortedByCount(t *testing.T) {
	data, err := Encode(FormatCSV, Document{Trigrams: map[string]int{"bbb": 1, "aaa": 1, "ccc": 9}})
	require.NoError(t, err)
	assert.Equal(t, "ccc,9\naaa,1\nbbb,1\n", string(data))
}

func TestEncodeMsgpack_RejectsNegativeCounts(t *testing.T) {
	_, err := Encode(FormatMsgpack, Document{Code: "x", Trigrams: map[string]int{"abc": -1}})
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"en.csv", FormatCSV, false},
		{"en.JSON", FormatJSON, false},
		{"en.yml", FormatYAML, false},
		{"en.yaml", FormatYAML, false},
		{"en.toml", FormatTOML, false},
		{"en.msgpack", FormatMsgpack, false},
		{"en.txt", "", true},
		{"en", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_Raw(t *testing.T) {
	doc := Document{
		Total:    3,
		Trigrams: map[string]int{"abc": 2, "ab": 5, "abcd": 1, "bcd": 3, "neg": -2},
	}
	raw, invalid := doc.Raw()

	assert.Equal(t, []string{"ab", "abcd", "neg"}, invalid)
	assert.Len(t, raw.Counts, 2)
	assert.Equal(t, 2, raw.Counts[types.MustParseTrigram("abc")])
	assert.Equal(t, 5, raw.Total, "total is at least the sum of valid counts")
}

func TestDocument_LanguageProfile(t *testing.T) {
	lang, err := sampleDocument().LanguageProfile(trigram.FrequencyBand{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "en", lang.Code())
	assert.Equal(t, "English", lang.Name())
	assert.Equal(t, 5, lang.Profile().Len())
	assert.InDelta(t, 1.0, lang.Profile().Magnitude(), 1e-9)

	_, err = Document{Trigrams: map[string]int{"abc": 1}}.LanguageProfile(trigram.FrequencyBand{}, nil)
	assert.Error(t, err, "a profile needs a code")
}

func TestBuild(t *testing.T) {
	texts := []types.Text{
		{"abcabc", "abc"},
		{"xyz\r"},
	}

	doc := Build("xx", "Test", texts, trigram.FrequencyBand{})
	assert.Equal(t, "xx", doc.Code)
	assert.Equal(t, "Test", doc.Name)
	assert.Equal(t, 6, doc.Total)
	assert.Equal(t, map[string]int{"abc": 3, "bca": 1, "cab": 1, "xyz": 1}, doc.Trigrams)

	filtered := Build("xx", "", texts, trigram.FrequencyBand{MinCount: 2})
	assert.Equal(t, map[string]int{"abc": 3}, filtered.Trigrams)
	assert.Equal(t, 6, filtered.Total, "total keeps every counted window")
}

func TestBuild_IgnoresCap(t *testing.T) {
	long := make(types.Text, 0, 50)
	for i := 0; i < 50; i++ {
		long = append(long, "the quick brown fox jumps over the lazy dog")
	}
	doc := Build("en", "", []types.Text{long}, trigram.FrequencyBand{})
	assert.Greater(t, doc.Total, trigram.DefaultMaxTrigrams)
}

func newFakeProfiles(t *testing.T, files map[string]Document) *provider.FakeProvider {
	t.Helper()
	p := provider.NewFakeProvider()
	for name, doc := range files {
		format, err := FormatFromPath(name)
		require.NoError(t, err)
		data, err := Encode(format, doc)
		require.NoError(t, err)
		p.AddFile(filepath.Join("profiles", name), string(data))
	}
	return p
}

func TestLoader_WithoutManifest(t *testing.T) {
	p := newFakeProfiles(t, map[string]Document{
		"fr.csv":     {Trigrams: map[string]int{"les": 4, "ent": 3}},
		"de.json":    {Code: "de", Name: "Deutsch", Trigrams: map[string]int{"der": 5, "ein": 2}},
		"es.msgpack": {Code: "es", Trigrams: map[string]int{"los": 3, "que": 3}},
	})
	p.AddFile("profiles/README.md", "not a profile")

	langs, sources, err := NewLoader(p, trigram.FrequencyBand{}, nil).Load("profiles")
	require.NoError(t, err)

	assert.Equal(t, []string{"de", "es", "fr"}, langs.Codes(), "files load in name order")
	assert.Equal(t, "Deutsch", langs[0].Name())
	assert.Equal(t, "fr", langs[2].Name(), "name falls back to the code")
	require.Len(t, sources, 3)
	assert.Equal(t, FormatMsgpack, sources[1].Format)
	assert.Equal(t, 2, sources[2].Trigrams)

	for _, lang := range langs {
		assert.InDelta(t, 1.0, lang.Profile().Magnitude(), 1e-9)
	}
}

func TestLoader_ManifestOrder(t *testing.T) {
	p := newFakeProfiles(t, map[string]Document{
		"a.yaml": {Trigrams: map[string]int{"aaa": 1}},
		"b.toml": {Trigrams: map[string]int{"bbb": 1}},
	})
	p.AddFile("profiles/languages.yaml", `
languages:
  - code: zz
    name: Last Letter
    file: b.toml
  - code: aa
    file: a.yaml
`)

	langs, _, err := NewLoader(p, trigram.FrequencyBand{}, nil).Load("profiles")
	require.NoError(t, err)
	assert.Equal(t, []string{"zz", "aa"}, langs.Codes())
	assert.Equal(t, "Last Letter", langs[0].Name())
}

func TestLoader_Errors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		p := provider.NewFakeProvider()
		p.AddDir("profiles")
		_, _, err := NewLoader(p, trigram.FrequencyBand{}, nil).Load("profiles")
		assert.True(t, errors.Is(err, ErrNoProfiles))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, _, err := NewLoader(provider.NewFakeProvider(), trigram.FrequencyBand{}, nil).Load("nowhere")
		assert.Error(t, err)
	})

	t.Run("duplicate codes", func(t *testing.T) {
		p := newFakeProfiles(t, map[string]Document{
			"one.json": {Code: "en", Trigrams: map[string]int{"abc": 1}},
			"two.json": {Code: "en", Trigrams: map[string]int{"bcd": 1}},
		})
		_, _, err := NewLoader(p, trigram.FrequencyBand{}, nil).Load("profiles")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate language code")
	})

	t.Run("invalid manifest", func(t *testing.T) {
		p := newFakeProfiles(t, map[string]Document{"en.csv": {Trigrams: map[string]int{"abc": 1}}})
		p.AddFile("profiles/languages.yaml", "languages:\n  - code: en\n")
		_, _, err := NewLoader(p, trigram.FrequencyBand{}, nil).Load("profiles")
		var validationErr validation.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("manifest names missing file", func(t *testing.T) {
		p := provider.NewFakeProvider()
		p.AddFile("profiles/languages.yaml", "languages:\n  - code: en\n    file: en.csv\n")
		_, _, err := NewLoader(p, trigram.FrequencyBand{}, nil).Load("profiles")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("corrupt profile", func(t *testing.T) {
		p := provider.NewFakeProvider()
		p.AddFile("profiles/en.json", "{not json")
		_, _, err := NewLoader(p, trigram.FrequencyBand{}, nil).Load("profiles")
		assert.Error(t, err)
	})
}

func TestLoader_FilterAppliedToReferences(t *testing.T) {
	p := newFakeProfiles(t, map[string]Document{
		"en.csv": {Trigrams: map[string]int{"the": 50, "ing": 10, "xqz": 1}},
	})

	langs, _, err := NewLoader(p, trigram.FrequencyBand{MinCount: 2, MaxShare: 0.9}, nil).Load("profiles")
	require.NoError(t, err)

	profile := langs[0].Profile()
	assert.Equal(t, 2, profile.Len())
	_, ok := profile.Weight(types.MustParseTrigram("xqz"))
	assert.False(t, ok)
	w, _ := profile.Weight(types.MustParseTrigram("the"))
	assert.InDelta(t, 50/math.Sqrt(50*50+10*10), w, 1e-9)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument()

	for _, name := range []string{"en.msgpack", "nested/en.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Write(path, doc))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	}

	loader := NewLoader(provider.NewFSProvider(dir), trigram.FrequencyBand{}, nil)
	lang, source, err := loader.LoadFile("en.msgpack", "", "")
	require.NoError(t, err)
	assert.Equal(t, "en", lang.Code())
	assert.Equal(t, 5, source.Trigrams)

	assert.Error(t, Write(filepath.Join(dir, "en.txt"), doc))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".profile-", "temp files must be cleaned up")
	}
}
