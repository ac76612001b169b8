// Package batch identifies many documents concurrently against one set of
// language profiles.
package batch

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petrarca/trigram-langid/internal/corpus"
	"github.com/petrarca/trigram-langid/internal/progress"
	"github.com/petrarca/trigram-langid/internal/textio"
	"github.com/petrarca/trigram-langid/internal/trigram"
	"github.com/petrarca/trigram-langid/internal/types"
)

// Result is the outcome for one document
type Result struct {
	Path     string          `json:"path" yaml:"path" toml:"path"`
	Kind     string          `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Language string          `json:"language" yaml:"language" toml:"language"`
	Name     string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Score    float64         `json:"score" yaml:"score" toml:"score"`
	Lines    int             `json:"lines" yaml:"lines" toml:"lines"`
	Trigrams int             `json:"trigrams" yaml:"trigrams" toml:"trigrams"`
	Scores   []trigram.Score `json:"scores,omitempty" yaml:"scores,omitempty" toml:"scores,omitempty"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// Identified reports whether a language was selected
func (r Result) Identified() bool {
	return r.Error == "" && r.Language != types.UnknownLanguage
}

// Options configure a Runner
type Options struct {
	// Jobs bounds concurrent documents; <= 0 uses GOMAXPROCS
	Jobs int
	// Text controls decoding of each document
	Text textio.Options
	// Scores keeps the score of every candidate in each Result
	Scores bool
}

// Runner identifies documents
type Runner struct {
	provider   types.Provider
	identifier *trigram.Identifier
	langs      types.LanguageProfiles
	opts       Options
	stdin      io.Reader
	progress   *progress.Progress
	logger     *slog.Logger
}

// NewRunner creates a runner. langs is shared read-only by all workers.
func NewRunner(provider types.Provider, identifier *trigram.Identifier, langs types.LanguageProfiles, opts Options, prog *progress.Progress, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		provider:   provider,
		identifier: identifier,
		langs:      langs,
		opts:       opts,
		progress:   prog,
		logger:     logger,
	}
}

// WithStdin sets the reader used for corpus.StdinPath documents
func (r *Runner) WithStdin(stdin io.Reader) *Runner {
	r.stdin = stdin
	return r
}

// Jobs returns the effective concurrency
func (r *Runner) Jobs() int {
	if r.opts.Jobs > 0 {
		return r.opts.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Run identifies docs and returns one Result per document in input order.
// A document that cannot be read gets its error in Result.Error and does
// not stop the run. The returned error is non-nil only when ctx ends
// before every document was processed.
func (r *Runner) Run(ctx context.Context, docs []corpus.Document) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(docs))

	// Wait always cancels gctx; only the caller's ctx decides the outcome
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Jobs())

	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.identify(doc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	r.progress.RunComplete(len(docs), time.Since(start))
	return results, nil
}

func (r *Runner) identify(doc corpus.Document) Result {
	start := time.Now()
	r.progress.DocumentStart(doc.Path)

	result := Result{Path: doc.Path, Kind: doc.Kind, Language: types.UnknownLanguage}

	text, err := r.read(doc.Path)
	if err != nil {
		result.Error = err.Error()
		r.progress.DocumentFailed(doc.Path, err)
		r.logger.Warn("Failed to read document", "path", doc.Path, "error", err)
		return result
	}

	profile := r.identifier.Profile(text)
	best := r.identifier.Select(profile, r.langs)

	result.Language = best.Code
	result.Score = best.Score
	result.Lines = len(text)
	result.Trigrams = profile.Len()
	if lang := r.langs.Find(best.Code); lang != nil {
		result.Name = lang.Name()
	}
	if r.opts.Scores {
		result.Scores = r.identifier.Rank(profile, r.langs)
	}

	duration := time.Since(start)
	r.progress.DocumentIdentified(doc.Path, result.Language, result.Score, result.Trigrams, duration)
	r.logger.Debug("Identified document", "path", doc.Path, "language", result.Language, "score", result.Score, "duration", duration)
	return result
}

func (r *Runner) read(path string) (types.Text, error) {
	if path == corpus.StdinPath {
		if r.stdin == nil {
			return nil, io.ErrUnexpectedEOF
		}
		return textio.ReadLines(r.stdin, r.opts.Text)
	}

	file, err := r.provider.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return textio.ReadLines(file, r.opts.Text)
}
