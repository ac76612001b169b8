package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/petrarca/trigram-langid/internal/config"
	"github.com/petrarca/trigram-langid/internal/corpus"
	"github.com/petrarca/trigram-langid/internal/profiles"
	"github.com/petrarca/trigram-langid/internal/progress"
	"github.com/petrarca/trigram-langid/internal/provider"
	"github.com/petrarca/trigram-langid/internal/textio"
	"github.com/petrarca/trigram-langid/internal/types"
	"github.com/spf13/cobra"
)

var (
	buildCode   string
	buildName   string
	buildTarget string
	buildFormat = "text"
)

var buildCmd = &cobra.Command{
	Use:   "build [paths...|-]",
	Short: "Build a language profile from a training corpus",
	Long: `Build counts every trigram window of the training documents and writes the
raw counts as a profile document. The output format follows the file
extension: .csv, .json, .yaml, .toml or .msgpack.

--min-count and --max-share drop rare and near-universal trigrams from the
stored counts.

Examples:
  langid build --code de --name German --out profiles/de.json corpus/de/
  cat training.txt | langid build --code fr --out profiles/fr.csv -`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	setupFormatFlag(buildCmd, &buildFormat)
	flags := buildCmd.Flags()
	flags.StringVar(&buildCode, "code", "", "Language code stored in the profile (required)")
	flags.StringVar(&buildName, "name", "", "Display name stored in the profile")
	flags.StringVar(&buildTarget, "out", "", "Profile file to write (required)")
	flags.IntVar(&settings.Filter.MinCount, "min-count", settings.Filter.MinCount, "Drop trigrams counted fewer times than this")
	flags.Float64Var(&settings.Filter.MaxShare, "max-share", settings.Filter.MaxShare, "Drop trigrams above this share of all windows (0 = off)")
	flags.StringVar(&settings.Encoding, "encoding", settings.Encoding, "Input encoding label, e.g. utf-8, latin1, windows-1251")
	flags.BoolVar(&settings.NFC, "nfc", settings.NFC, "Normalize input to Unicode NFC")
	flags.StringSliceVar(&settings.ExcludePatterns, "exclude", settings.ExcludePatterns, "Patterns to exclude (supports glob patterns, can be specified multiple times)")
	flags.StringSliceVar(&settings.Kinds, "kind", settings.Kinds, "Only read walked files of these kinds")
	_ = buildCmd.MarkFlagRequired("code")
	_ = buildCmd.MarkFlagRequired("out")
}

// BuildResult summarizes a written profile
type BuildResult struct {
	Code      string          `json:"code" yaml:"code" toml:"code"`
	Name      string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Path      string          `json:"path" yaml:"path" toml:"path"`
	Format    profiles.Format `json:"format" yaml:"format" toml:"format"`
	Documents int             `json:"documents" yaml:"documents" toml:"documents"`
	Lines     int             `json:"lines" yaml:"lines" toml:"lines"`
	Total     int             `json:"total" yaml:"total" toml:"total"`
	Trigrams  int             `json:"trigrams" yaml:"trigrams" toml:"trigrams"`
	Duration  int64           `json:"duration_ms" yaml:"duration_ms" toml:"duration_ms"`
}

func (r *BuildResult) ToJSON() interface{} {
	return r
}

func (r *BuildResult) ToText(w io.Writer, styles Styles) {
	fmt.Fprintf(w, "%s %s\n", styles.Code(r.Code), r.Path)
	fmt.Fprintf(w, "  documents: %d, lines: %d\n", r.Documents, r.Lines)
	fmt.Fprintf(w, "  windows:   %d, distinct trigrams: %d\n", r.Total, r.Trigrams)
	fmt.Fprintln(w, styles.Dim(fmt.Sprintf("  built in %dms", r.Duration)))
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger := configureLogging(cmd)
	if err := prepareSettings(cmd, logger); err != nil {
		return err
	}
	args, err := inputArgs(args, isatty.IsTerminal(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	prog := progress.New(settings.Verbose, progress.NewSimpleHandler(os.Stderr))
	result, err := build(settings, buildCode, buildName, buildTarget, args, os.Stdin, prog, logger)
	if err != nil {
		return err
	}
	return OutputToFile(result, buildFormat, "")
}

// build reads the training documents named by args and writes the profile
func build(s *config.Settings, code, name, target string, args []string, stdin io.Reader, prog *progress.Progress, logger *slog.Logger) (*BuildResult, error) {
	if code == "" {
		return nil, errors.New("a language code is required")
	}
	format, err := profiles.FormatFromPath(target)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fs := provider.NewFSProvider(".")
	docs, err := corpus.NewCollector(fs, corpus.Options{
		Exclude:   s.ExcludePatterns,
		Gitignore: s.Gitignore,
		Kinds:     s.Kinds,
	}, prog, logger).Collect(args)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New("no training documents found")
	}
	prog.RunStart(len(docs), s.ExcludePatterns)
	prog.Infof("Building %s profile from %d documents", code, len(docs))

	opts := s.TextOptions()
	texts := make([]types.Text, 0, len(docs))
	lines := 0
	for _, doc := range docs {
		text, err := readText(fs, doc.Path, stdin, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", doc.Path, err)
		}
		lines += len(text)
		texts = append(texts, text)
		logger.Debug("Read training document", "path", doc.Path, "lines", len(text))
	}

	profile := profiles.Build(code, name, texts, s.Filter)
	if len(profile.Trigrams) == 0 {
		logger.Warn("Profile has no trigrams", "code", code, "documents", len(docs))
	}
	if err := profiles.Write(target, profile); err != nil {
		return nil, fmt.Errorf("failed to write profile: %w", err)
	}
	prog.FileWritten(target)
	prog.RunComplete(len(docs), time.Since(start))

	return &BuildResult{
		Code:      code,
		Name:      name,
		Path:      target,
		Format:    format,
		Documents: len(docs),
		Lines:     lines,
		Total:     profile.Total,
		Trigrams:  len(profile.Trigrams),
		Duration:  time.Since(start).Milliseconds(),
	}, nil
}

func readText(fs types.Provider, path string, stdin io.Reader, opts textio.Options) (types.Text, error) {
	if path == corpus.StdinPath {
		if stdin == nil {
			return nil, io.ErrUnexpectedEOF
		}
		return textio.ReadLines(stdin, opts)
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return textio.ReadLines(file, opts)
}
