// Package corpus resolves command line arguments into the documents a run
// identifies: single files, directory trees and doublestar glob patterns.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
	"github.com/petrarca/trigram-langid/internal/constants"
	"github.com/petrarca/trigram-langid/internal/git"
	"github.com/petrarca/trigram-langid/internal/progress"
	"github.com/petrarca/trigram-langid/internal/types"
)

// StdinPath stands for standard input
const StdinPath = "-"

// sniffSize is how much of a file is read for binary and language detection
const sniffSize = 8000

// Document is one input to identify
type Document struct {
	Path     string `json:"path" yaml:"path" toml:"path"`
	Language string `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`
	Kind     string `json:"kind" yaml:"kind" toml:"kind"`
	Size     int64  `json:"size" yaml:"size" toml:"size"`
}

// Options control what a Collector keeps
type Options struct {
	// Exclude holds doublestar patterns matched against the path relative
	// to the walked root and against the bare name
	Exclude []string
	// Gitignore honors .gitignore files and .git/info/exclude while walking
	Gitignore bool
	// Kinds restricts walked files to these kinds; empty keeps all
	Kinds []string
}

// Collector turns arguments into documents
type Collector struct {
	provider types.Provider
	opts     Options
	progress *progress.Progress
	logger   *slog.Logger
}

// NewCollector creates a collector reading through provider
func NewCollector(provider types.Provider, opts Options, prog *progress.Progress, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{
		provider: provider,
		opts:     opts,
		progress: prog,
		logger:   logger,
	}
}

// Collect resolves args in order. Files named explicitly are only checked
// for binary content; files found by walking a directory or expanding a
// glob also go through the exclude, ignore, vendor, dot file and kind
// filters. A path reached twice is kept once, at its first position.
func (c *Collector) Collect(args []string) ([]Document, error) {
	var docs []Document
	seen := make(map[string]bool)

	add := func(doc Document) {
		key := filepath.Clean(doc.Path)
		if seen[key] {
			c.skip(doc.Path, constants.ReasonDuplicate)
			return
		}
		seen[key] = true
		docs = append(docs, doc)
	}

	for _, arg := range args {
		if arg == StdinPath {
			add(Document{Path: StdinPath, Kind: KindUnknown})
			continue
		}

		if isPattern(arg) {
			found, err := c.glob(arg)
			if err != nil {
				return nil, err
			}
			for _, doc := range found {
				add(doc)
			}
			continue
		}

		isDir, err := c.provider.IsDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !isDir {
			doc, ok, err := c.inspect(arg, filepath.Base(arg))
			if err != nil {
				return nil, err
			}
			if ok {
				if size, found := c.size(arg); found {
					doc.Size = size
				}
				add(doc)
			}
			continue
		}

		found, err := c.walkRoot(arg, nil)
		if err != nil {
			return nil, err
		}
		for _, doc := range found {
			add(doc)
		}
	}

	c.logger.Debug("Collected documents", "args", len(args), "documents", len(docs))
	return docs, nil
}

// glob walks the static prefix of pattern and keeps files whose path
// relative to that prefix matches the rest of it
func (c *Collector) glob(pattern string) ([]Document, error) {
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	base, rest := doublestar.SplitPattern(pattern)
	isDir, err := c.provider.IsDir(base)
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("Pattern base does not exist", "pattern", pattern, "base", base)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, nil
	}

	return c.walkRoot(base, func(rel string) bool {
		matched, err := doublestar.Match(rest, filepath.ToSlash(rel))
		return err == nil && matched
	})
}

// walker holds the state of one directory walk
type walker struct {
	*Collector
	root   string
	ignore *git.IgnoreStack
	match  func(rel string) bool
	docs   []Document
}

func (c *Collector) walkRoot(root string, match func(rel string) bool) ([]Document, error) {
	w := &walker{
		Collector: c,
		root:      root,
		ignore:    git.NewIgnoreStack(c.provider, c.logger),
		match:     match,
	}
	if c.opts.Gitignore {
		w.ignore.LoadInfoExclude(root)
	}
	if err := w.walk(root); err != nil {
		return nil, err
	}
	return w.docs, nil
}

func (w *walker) walk(dir string) error {
	if w.opts.Gitignore && w.ignore.Enter(dir) {
		defer w.ignore.Pop()
	}

	files, err := w.provider.ListDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, file := range files {
		path := filepath.Join(dir, file.Name)
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = file.Name
		}

		if reason := w.filter(file.Name, path, rel, file.IsDir); reason != "" {
			w.skip(path, reason)
			continue
		}

		if file.IsDir {
			if err := w.walk(path); err != nil {
				return err
			}
			continue
		}

		if w.match != nil && !w.match(rel) {
			continue
		}

		doc, ok, err := w.inspect(path, file.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		doc.Size = file.Size
		if len(w.opts.Kinds) > 0 && !slices.Contains(w.opts.Kinds, doc.Kind) {
			w.skip(path, constants.ReasonKind)
			continue
		}
		w.docs = append(w.docs, doc)
	}
	return nil
}

// filter returns why an entry found while walking is skipped, or "".
// Exclude patterns match rel, the path below the walked root; ignore files
// match path relative to the directory holding them.
func (w *walker) filter(name, path, rel string, isDir bool) string {
	if enry.IsDotFile(name) {
		return constants.ReasonDotFile
	}
	if git.MatchAny(w.opts.Exclude, name, rel) {
		return constants.ReasonExcluded
	}
	if w.opts.Gitignore && w.ignore.Excluded(path, isDir) {
		return constants.ReasonIgnored
	}
	vendorPath := filepath.ToSlash(rel)
	if isDir {
		vendorPath += "/"
	}
	if enry.IsVendor(vendorPath) {
		return constants.ReasonVendor
	}
	return ""
}

// inspect sniffs the head of a file. Binary files are reported and
// dropped. Size is a lower bound; callers fill in the listed size.
func (c *Collector) inspect(path, name string) (Document, bool, error) {
	head, err := c.head(path)
	if err != nil {
		return Document{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if enry.IsBinary(head) {
		c.skip(path, constants.ReasonBinary)
		return Document{}, false, nil
	}

	lang, kind := detectLanguage(name, head)
	return Document{
		Path:     path,
		Language: lang,
		Kind:     kind,
		Size:     int64(len(head)),
	}, true, nil
}

func (c *Collector) head(path string) ([]byte, error) {
	file, err := c.provider.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

// size looks the file up in its directory listing
func (c *Collector) size(path string) (int64, bool) {
	files, err := c.provider.ListDir(filepath.Dir(path))
	if err != nil {
		return 0, false
	}
	name := filepath.Base(path)
	for _, f := range files {
		if f.Name == name {
			return f.Size, true
		}
	}
	return 0, false
}

func (c *Collector) skip(path, reason string) {
	c.progress.Skipped(path, reason)
	c.logger.Debug("Skipped", "path", path, "reason", reason)
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
