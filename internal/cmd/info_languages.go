package cmd

import (
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/go-enry/go-enry/v2/data"
	"github.com/petrarca/trigram-langid/internal/corpus"
	"github.com/spf13/cobra"
)

var (
	languagesFormat = "text"
	languagesOutput string
	languagesKinds  []string
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the file languages known to the corpus walker",
	Long: `List the languages from go-enry (GitHub Linguist) with the kind each one
maps to. The kind is what --kind filters on when walking directories.`,
	RunE: runLanguages,
}

func init() {
	setupOutputFlags(languagesCmd, &languagesFormat, &languagesOutput)
	languagesCmd.Flags().StringSliceVar(&languagesKinds, "kind", nil, "Only list languages of these kinds")
}

// LanguageInfo describes one linguist language
type LanguageInfo struct {
	Name       string   `json:"name" yaml:"name" toml:"name"`
	Kind       string   `json:"kind" yaml:"kind" toml:"kind"`
	Extensions []string `json:"extensions" yaml:"extensions" toml:"extensions"`
}

// LanguagesSummary holds counts per kind
type LanguagesSummary struct {
	Total  int            `json:"total" yaml:"total" toml:"total"`
	ByKind map[string]int `json:"by_kind" yaml:"by_kind" toml:"by_kind"`
}

// LanguagesResult is the output for the languages command
type LanguagesResult struct {
	Languages []LanguageInfo   `json:"languages" yaml:"languages" toml:"languages"`
	Summary   LanguagesSummary `json:"summary" yaml:"summary" toml:"summary"`
}

func (r *LanguagesResult) ToJSON() interface{} {
	return r
}

func (r *LanguagesResult) ToText(w io.Writer, styles Styles) {
	fmt.Fprintln(w, styles.Header(fmt.Sprintf("%-30s %-12s %s", "LANGUAGE", "KIND", "EXTENSIONS")))
	for _, lang := range r.Languages {
		fmt.Fprintf(w, "%-30s %-12s %v\n", lang.Name, lang.Kind, lang.Extensions)
	}
	fmt.Fprintf(w, "\nTotal: %d languages\n", r.Summary.Total)
	fmt.Fprintln(w, styles.Dim(fmt.Sprintf("By kind: prose=%d, markup=%d, data=%d, programming=%d",
		r.Summary.ByKind[corpus.KindProse], r.Summary.ByKind[corpus.KindMarkup],
		r.Summary.ByKind[corpus.KindData], r.Summary.ByKind[corpus.KindProgramming])))
}

func runLanguages(cmd *cobra.Command, args []string) error {
	return OutputToFile(buildLanguagesResult(languagesKinds), languagesFormat, languagesOutput)
}

func buildLanguagesResult(kinds []string) *LanguagesResult {
	extensions := make(map[string][]string)
	for ext, langs := range data.LanguagesByExtension {
		for _, lang := range langs {
			extensions[lang] = append(extensions[lang], ext)
		}
	}

	languages := make([]LanguageInfo, 0, len(extensions))
	byKind := make(map[string]int)
	for lang, exts := range extensions {
		kind := corpus.LanguageKind(lang)
		if len(kinds) > 0 && !slices.Contains(kinds, kind) {
			continue
		}
		sort.Strings(exts)
		languages = append(languages, LanguageInfo{
			Name:       lang,
			Kind:       kind,
			Extensions: exts,
		})
		byKind[kind]++
	}

	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Name < languages[j].Name
	})

	return &LanguagesResult{
		Languages: languages,
		Summary: LanguagesSummary{
			Total:  len(languages),
			ByKind: byKind,
		},
	}
}
