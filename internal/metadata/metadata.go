package metadata

import (
	"path/filepath"
	"time"

	"github.com/petrarca/trigram-langid/internal/git"
)

// RunMetadata contains information about an identify run
type RunMetadata struct {
	Timestamp     string         `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Paths         []string       `json:"paths" yaml:"paths" toml:"paths"`
	SpecVersion   string         `json:"specVersion" yaml:"specVersion" toml:"specVersion"` // Output format specification version
	ProfilesDir   string         `json:"profiles_dir,omitempty" yaml:"profiles_dir,omitempty" toml:"profiles_dir,omitempty"`
	Languages     []string       `json:"languages,omitempty" yaml:"languages,omitempty" toml:"languages,omitempty"`
	MaxTrigrams   int            `json:"max_trigrams" yaml:"max_trigrams" toml:"max_trigrams"`
	DurationMs    int64          `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty" toml:"duration_ms,omitempty"`
	DocumentCount int            `json:"document_count" yaml:"document_count" toml:"document_count"`
	FailedCount   int            `json:"failed_count,omitempty" yaml:"failed_count,omitempty" toml:"failed_count,omitempty"`
	UnknownCount  int            `json:"unknown_count,omitempty" yaml:"unknown_count,omitempty" toml:"unknown_count,omitempty"`
	Distribution  map[string]int `json:"distribution,omitempty" yaml:"distribution,omitempty" toml:"distribution,omitempty"` // Documents per language code
	Git           *git.Info      `json:"git,omitempty" yaml:"git,omitempty" toml:"git,omitempty"`
}

// NewRunMetadata creates a new run metadata instance
func NewRunMetadata(paths []string, version string) *RunMetadata {
	absPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "-" {
			absPaths = append(absPaths, path)
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		absPaths = append(absPaths, path)
	}

	return &RunMetadata{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Paths:       absPaths,
		SpecVersion: version,
	}
}

// SetDuration sets the run duration in milliseconds
func (m *RunMetadata) SetDuration(duration time.Duration) {
	m.DurationMs = duration.Milliseconds()
}

// SetProfiles records where the profiles came from and their codes
func (m *RunMetadata) SetProfiles(dir string, codes []string) {
	m.ProfilesDir = dir
	m.Languages = codes
}

// SetMaxTrigrams records the extraction cap used
func (m *RunMetadata) SetMaxTrigrams(maxTrigrams int) {
	m.MaxTrigrams = maxTrigrams
}

// SetCounts sets the document counts
func (m *RunMetadata) SetCounts(documents, failed, unknown int) {
	m.DocumentCount = documents
	m.FailedCount = failed
	m.UnknownCount = unknown
}

// AddLanguage counts one document identified as code
func (m *RunMetadata) AddLanguage(code string) {
	if m.Distribution == nil {
		m.Distribution = make(map[string]int)
	}
	m.Distribution[code]++
}

// SetGit records the repository of the first input path, if any
func (m *RunMetadata) SetGit(info *git.Info) {
	m.Git = info
}
