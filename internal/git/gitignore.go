package git

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/petrarca/trigram-langid/internal/types"
)

// IgnoreFile is the per-directory ignore file honored while walking a corpus
const IgnoreFile = ".gitignore"

// ParsePatterns reads ignore patterns, one per line. Comments and blank
// lines are dropped; everything else, negations included, is kept for
// gitignore matching.
func ParsePatterns(r io.Reader) ([]string, error) {
	patterns := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ignore patterns: %w", err)
	}
	return patterns, nil
}

// patternSet holds the patterns of one ignore file, scoped to its directory
type patternSet struct {
	patterns []gitignore.Pattern
}

// IgnoreStack tracks the ignore patterns in effect while walking a tree.
// Patterns of a directory apply to that directory and below; callers Pop
// when leaving a directory whose Enter returned true.
type IgnoreStack struct {
	provider types.Provider
	logger   *slog.Logger
	sets     []patternSet
}

// NewIgnoreStack creates an empty stack reading ignore files via provider
func NewIgnoreStack(provider types.Provider, logger *slog.Logger) *IgnoreStack {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &IgnoreStack{provider: provider, logger: logger}
}

// Push adds the patterns of an ignore file found in dir. They match paths
// relative to dir: "/x" and "a/*.txt" only below dir itself, bare names at
// any depth. Empty sets are not pushed; the return value tells whether a
// matching Pop is needed.
func (s *IgnoreStack) Push(dir string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	domain := splitPath(dir)
	set := patternSet{patterns: make([]gitignore.Pattern, 0, len(patterns))}
	for _, p := range patterns {
		set.patterns = append(set.patterns, gitignore.ParsePattern(p, domain))
	}
	s.sets = append(s.sets, set)
	return true
}

// Pop removes the most recently pushed set
func (s *IgnoreStack) Pop() {
	if len(s.sets) > 0 {
		s.sets = s.sets[:len(s.sets)-1]
	}
}

// Depth returns the number of pushed sets
func (s *IgnoreStack) Depth() int {
	return len(s.sets)
}

// Enter loads the ignore file of dir, if any, and pushes its patterns
func (s *IgnoreStack) Enter(dir string) bool {
	path := filepath.Join(dir, IgnoreFile)
	exists, err := s.provider.Exists(path)
	if err != nil || !exists {
		return false
	}

	patterns, err := s.readPatterns(path)
	if err != nil {
		s.logger.Warn("Failed to read ignore file", "path", path, "error", err)
		return false
	}
	s.logger.Debug("Loaded ignore patterns", "path", path, "count", len(patterns))
	return s.Push(dir, patterns)
}

// LoadInfoExclude pushes the patterns of .git/info/exclude below root
func (s *IgnoreStack) LoadInfoExclude(root string) bool {
	gitDir, ok := s.findGitDir(root)
	if !ok {
		return false
	}
	path := filepath.Join(gitDir, "info", "exclude")
	if exists, err := s.provider.Exists(path); err != nil || !exists {
		return false
	}
	patterns, err := s.readPatterns(path)
	if err != nil {
		s.logger.Warn("Failed to read ignore file", "path", path, "error", err)
		return false
	}
	return s.Push(root, patterns)
}

// Excluded reports whether path, as passed to the provider, is ignored by
// the sets on the stack. Later patterns win over earlier ones, so inner
// ignore files and negations can re-include a path.
func (s *IgnoreStack) Excluded(path string, isDir bool) bool {
	if len(s.sets) == 0 {
		return false
	}
	var patterns []gitignore.Pattern
	for _, set := range s.sets {
		patterns = append(patterns, set.patterns...)
	}
	return gitignore.NewMatcher(patterns).Match(splitPath(path), isDir)
}

// splitPath turns a provider path into the components gitignore matches on
func splitPath(path string) []string {
	path = filepath.ToSlash(filepath.Clean(path))
	if path == "." {
		return nil
	}
	return strings.Split(path, "/")
}

// MatchAny reports whether name or relPath matches one of the doublestar
// patterns. Invalid patterns never match.
func MatchAny(patterns []string, name, relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

func (s *IgnoreStack) readPatterns(path string) ([]string, error) {
	data, err := s.provider.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePatterns(bytes.NewReader(data))
}

// findGitDir resolves the git directory of root, following the gitdir
// pointer used by worktrees and submodules
func (s *IgnoreStack) findGitDir(root string) (string, bool) {
	dotGit := filepath.Join(root, ".git")
	isDir, err := s.provider.IsDir(dotGit)
	if err != nil {
		return "", false
	}
	if isDir {
		return dotGit, true
	}

	content, err := s.provider.ReadFile(dotGit)
	if err != nil {
		return "", false
	}
	pointer := strings.TrimSpace(string(content))
	if !strings.HasPrefix(pointer, "gitdir: ") {
		return "", false
	}
	gitDir := strings.TrimPrefix(pointer, "gitdir: ")
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}
	return gitDir, true
}
