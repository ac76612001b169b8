package profiles

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/petrarca/trigram-langid/internal/trigram"
	"github.com/petrarca/trigram-langid/internal/types"
	"github.com/petrarca/trigram-langid/internal/validation"
	"gopkg.in/yaml.v3"
)

// ManifestFile lists the profiles of a directory in candidate order
const ManifestFile = "languages.yaml"

// ErrNoProfiles is returned when a directory holds no profile files
var ErrNoProfiles = errors.New("no language profiles found")

// Manifest is the optional index of a profile directory
type Manifest struct {
	Languages []ManifestEntry `yaml:"languages" json:"languages"`
}

// ManifestEntry names one profile file
type ManifestEntry struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	File string `yaml:"file" json:"file"`
}

// Source describes where a loaded profile came from
type Source struct {
	Code     string `json:"code" yaml:"code" toml:"code"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Path     string `json:"path" yaml:"path" toml:"path"`
	Format   Format `json:"format" yaml:"format" toml:"format"`
	Trigrams int    `json:"trigrams" yaml:"trigrams" toml:"trigrams"`
}

// Loader reads profile directories through a Provider
type Loader struct {
	provider types.Provider
	filter   trigram.FrequencyBand
	logger   *slog.Logger
}

// NewLoader creates a loader. filter is applied to every reference profile
// before normalization so it matches what the identifier does to texts.
func NewLoader(provider types.Provider, filter trigram.FrequencyBand, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		provider: provider,
		filter:   filter,
		logger:   logger,
	}
}

// Load reads every profile of dir. With a manifest, its order is kept;
// otherwise files are loaded in name order with the file stem as code.
func (l *Loader) Load(dir string) (types.LanguageProfiles, []Source, error) {
	entries, err := l.entries(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", dir, ErrNoProfiles)
	}

	langs := make(types.LanguageProfiles, 0, len(entries))
	sources := make([]Source, 0, len(entries))
	seen := make(map[string]string, len(entries))

	for _, entry := range entries {
		path := filepath.Join(dir, entry.File)
		lang, source, err := l.LoadFile(path, entry.Code, entry.Name)
		if err != nil {
			return nil, nil, err
		}
		if prev, dup := seen[lang.Code()]; dup {
			return nil, nil, fmt.Errorf("duplicate language code %q in %s and %s", lang.Code(), prev, path)
		}
		seen[lang.Code()] = path

		langs = append(langs, lang)
		sources = append(sources, source)
	}

	l.logger.Debug("Loaded language profiles", "dir", dir, "count", len(langs), "codes", langs.Codes())
	return langs, sources, nil
}

// LoadFile reads a single profile file. code and name override the values
// stored in the document; CSV documents need code from the caller or the
// file stem.
func (l *Loader) LoadFile(path, code, name string) (*types.LanguageProfile, Source, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, Source{}, err
	}

	data, err := l.provider.ReadFile(path)
	if err != nil {
		return nil, Source{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	doc, err := Decode(format, data)
	if err != nil {
		return nil, Source{}, fmt.Errorf("%s: %w", path, err)
	}
	if code != "" {
		doc.Code = code
	}
	if name != "" {
		doc.Name = name
	}
	if doc.Code == "" {
		doc.Code = stem(path)
	}

	lang, err := doc.LanguageProfile(l.filter, l.logger)
	if err != nil {
		return nil, Source{}, fmt.Errorf("%s: %w", path, err)
	}

	source := Source{
		Code:     lang.Code(),
		Name:     lang.Name(),
		Path:     path,
		Format:   format,
		Trigrams: lang.Profile().Len(),
	}
	l.logger.Debug("Loaded profile", "code", source.Code, "path", path, "trigrams", source.Trigrams)
	return lang, source, nil
}

// entries returns the manifest entries of dir, or one entry per profile file
func (l *Loader) entries(dir string) ([]ManifestEntry, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	exists, err := l.provider.Exists(manifestPath)
	if err != nil {
		return nil, err
	}
	if exists {
		return l.readManifest(manifestPath)
	}

	files, err := l.provider.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles in %s: %w", dir, err)
	}

	var entries []ManifestEntry
	for _, file := range files {
		if file.IsDir || strings.HasPrefix(file.Name, ".") {
			continue
		}
		if _, err := FormatFromPath(file.Name); err != nil {
			l.logger.Debug("Skipping non-profile file", "path", file.Path)
			continue
		}
		entries = append(entries, ManifestEntry{File: file.Name})
	}
	return entries, nil
}

func (l *Loader) readManifest(path string) ([]ManifestEntry, error) {
	data, err := l.provider.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := validation.ValidateYAML(validation.ManifestSchema, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return manifest.Languages, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
