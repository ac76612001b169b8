package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/petrarca/trigram-langid/internal/batch"
	"github.com/petrarca/trigram-langid/internal/config"
	"github.com/petrarca/trigram-langid/internal/corpus"
	"github.com/petrarca/trigram-langid/internal/git"
	"github.com/petrarca/trigram-langid/internal/metadata"
	"github.com/petrarca/trigram-langid/internal/profiles"
	"github.com/petrarca/trigram-langid/internal/progress"
	"github.com/petrarca/trigram-langid/internal/provider"
	"github.com/petrarca/trigram-langid/internal/spec"
	"github.com/petrarca/trigram-langid/internal/trigram"
	"github.com/petrarca/trigram-langid/internal/types"
	"github.com/spf13/cobra"
)

var noGitignore bool

var identifyCmd = &cobra.Command{
	Use:   "identify [paths...|-]",
	Short: "Identify the language of text documents",
	Long: `Identify reads each document, builds its trigram profile and reports the
reference language whose profile is most similar. Documents whose best
score is zero are reported as "---".

Arguments may be files, directories (walked recursively), doublestar glob
patterns or "-" for standard input. Without arguments standard input is
read when it is not a terminal.

Examples:
  echo "the quick brown fox" | langid identify
  langid identify --profiles ./profiles docs/
  langid identify --format json --scores "corpus/**/*.txt"
  langid identify --exclude "**/drafts/**" --kind prose,markup .`,
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)

	setupOutputFlags(identifyCmd, &settings.Format, &settings.OutputFile)
	flags := identifyCmd.Flags()
	flags.IntVarP(&settings.Jobs, "jobs", "j", settings.Jobs, "Documents identified in parallel (0 = number of CPUs)")
	flags.IntVar(&settings.MaxTrigrams, "max-trigrams", settings.MaxTrigrams, "Trigram windows counted per document (0 = unlimited)")
	flags.IntVar(&settings.Filter.MinCount, "min-count", settings.Filter.MinCount, "Drop trigrams counted fewer times than this")
	flags.Float64Var(&settings.Filter.MaxShare, "max-share", settings.Filter.MaxShare, "Drop trigrams above this share of all windows (0 = off)")
	flags.Float64Var(&settings.Plausibility.Low, "plausibility-low", settings.Plausibility.Low, "Text trigram weights at or below this are ignored")
	flags.Float64Var(&settings.Plausibility.High, "plausibility-high", settings.Plausibility.High, "Text trigram weights at or above this are ignored (low and high 0 disable the band)")
	flags.StringVar(&settings.Encoding, "encoding", settings.Encoding, "Input encoding label, e.g. utf-8, latin1, windows-1251")
	flags.BoolVar(&settings.NFC, "nfc", settings.NFC, "Normalize input to Unicode NFC")
	flags.StringSliceVar(&settings.ExcludePatterns, "exclude", settings.ExcludePatterns, "Patterns to exclude (supports glob patterns, can be specified multiple times)")
	flags.BoolVar(&noGitignore, "no-gitignore", !settings.Gitignore, "Do not honor .gitignore files while walking directories")
	flags.StringSliceVar(&settings.Kinds, "kind", settings.Kinds, "Only identify walked files of these kinds: prose, markup, data, programming, unknown")
	flags.BoolVar(&settings.Scores, "scores", settings.Scores, "Include the score of every language")
	flags.BoolVar(&settings.TraceTimings, "trace-timings", settings.TraceTimings, "Show per-document timings (requires --verbose)")
}

// IdentifyResult is the output of the identify command
type IdentifyResult struct {
	Metadata *metadata.RunMetadata `json:"metadata" yaml:"metadata" toml:"metadata"`
	Results  []batch.Result        `json:"results" yaml:"results" toml:"results"`
}

func (r *IdentifyResult) ToJSON() interface{} {
	return r
}

func (r *IdentifyResult) ToText(w io.Writer, styles Styles) {
	// a single stdin document prints just the code
	if len(r.Results) == 1 && r.Results[0].Path == corpus.StdinPath && r.Results[0].Error == "" {
		fmt.Fprintln(w, r.Results[0].Language)
		return
	}

	width := len("PATH")
	for _, result := range r.Results {
		width = max(width, len(result.Path))
	}

	fmt.Fprintln(w, styles.Header(fmt.Sprintf("%-*s  %-8s  %s", width, "PATH", "LANGUAGE", "SCORE")))
	for _, result := range r.Results {
		path := fmt.Sprintf("%-*s", width, result.Path)
		switch {
		case result.Error != "":
			fmt.Fprintf(w, "%s  %s\n", path, styles.Failed("error: "+result.Error))
		case result.Language == types.UnknownLanguage:
			fmt.Fprintf(w, "%s  %s\n", path, styles.Unknown(fmt.Sprintf("%-8s", result.Language)))
		default:
			fmt.Fprintf(w, "%s  %s  %.4f%s\n", path, styles.Code(fmt.Sprintf("%-8s", result.Language)), result.Score, formatScores(result.Scores, styles))
		}
	}

	m := r.Metadata
	fmt.Fprintln(w, styles.Dim(fmt.Sprintf("\n%d documents, %d unknown, %d failed in %dms",
		m.DocumentCount, m.UnknownCount, m.FailedCount, m.DurationMs)))
}

func formatScores(scores []trigram.Score, styles Styles) string {
	if len(scores) == 0 {
		return ""
	}
	parts := make([]string, 0, len(scores))
	for _, s := range scores {
		parts = append(parts, fmt.Sprintf("%s=%.4f", s.Code, s.Score))
	}
	return "  " + styles.Dim(strings.Join(parts, " "))
}

func runIdentify(cmd *cobra.Command, args []string) error {
	logger := configureLogging(cmd)
	if cmd.Flags().Changed("no-gitignore") {
		settings.Gitignore = !noGitignore
	}
	if err := prepareSettings(cmd, logger); err != nil {
		return err
	}

	args, err := inputArgs(args, isatty.IsTerminal(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	prog := progress.New(settings.Verbose, progress.NewSimpleHandler(os.Stderr))
	if settings.TraceTimings {
		prog.EnableTimings()
	}

	result, err := identify(cmd.Context(), settings, args, os.Stdin, prog, logger)
	if err != nil {
		return err
	}
	return OutputToFile(result, settings.Format, settings.OutputFile)
}

// identify loads the profiles, resolves args and identifies every document
func identify(ctx context.Context, s *config.Settings, args []string, stdin io.Reader, prog *progress.Progress, logger *slog.Logger) (*IdentifyResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	fs := provider.NewFSProvider(".")

	langs, _, err := profiles.NewLoader(fs, s.Filter, logger).Load(s.ProfilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	prog.ProfilesLoaded(s.ProfilesDir, langs.Codes())

	collector := corpus.NewCollector(fs, corpus.Options{
		Exclude:   s.ExcludePatterns,
		Gitignore: s.Gitignore,
		Kinds:     s.Kinds,
	}, prog, logger)
	docs, err := collector.Collect(args)
	if err != nil {
		return nil, err
	}
	prog.RunStart(len(docs), s.ExcludePatterns)
	if len(docs) == 0 {
		prog.Info("No documents to identify")
	}

	runner := batch.NewRunner(fs, trigram.NewIdentifier(s.DetectorOptions()), langs, batch.Options{
		Jobs:   s.Jobs,
		Text:   s.TextOptions(),
		Scores: s.Scores,
	}, prog, logger).WithStdin(stdin)

	logger.Debug("Identifying documents", "documents", len(docs), "jobs", runner.Jobs(), "languages", len(langs))
	results, err := runner.Run(ctx, docs)
	if err != nil {
		return nil, err
	}

	meta := metadata.NewRunMetadata(args, spec.Version)
	meta.SetProfiles(s.ProfilesDir, langs.Codes())
	meta.SetMaxTrigrams(s.MaxTrigrams)
	failed, unknown := 0, 0
	for _, result := range results {
		switch {
		case result.Error != "":
			failed++
		case result.Language == types.UnknownLanguage:
			unknown++
		default:
			meta.AddLanguage(result.Language)
		}
	}
	meta.SetCounts(len(results), failed, unknown)
	if args[0] != corpus.StdinPath {
		meta.SetGit(git.Describe(args[0]))
	}
	meta.SetDuration(time.Since(start))

	return &IdentifyResult{Metadata: meta, Results: results}, nil
}
