package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/petrarca/trigram-langid/internal/validation"
	"gopkg.in/yaml.v3"
)

// ProjectConfigFile is picked up from the working directory when no
// --config is given
const ProjectConfigFile = ".langid.yml"

// ConfigFile represents an external configuration file. Absent keys leave
// the corresponding settings untouched.
type ConfigFile struct {
	Detector DetectorConfig `yaml:"detector,omitempty" json:"detector,omitempty" toml:"detector,omitempty"`
	Profiles ProfilesConfig `yaml:"profiles,omitempty" json:"profiles,omitempty" toml:"profiles,omitempty"`
	Input    InputConfig    `yaml:"input,omitempty" json:"input,omitempty" toml:"input,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty" json:"output,omitempty" toml:"output,omitempty"`
}

// DetectorConfig holds the identification thresholds
type DetectorConfig struct {
	MaxTrigrams  *int                   `yaml:"max_trigrams,omitempty" json:"max_trigrams,omitempty" toml:"max_trigrams,omitempty"`
	Filter       *FilterConfig       `yaml:"filter,omitempty" json:"filter,omitempty" toml:"filter,omitempty"`
	Plausibility *PlausibilityConfig `yaml:"plausibility,omitempty" json:"plausibility,omitempty" toml:"plausibility,omitempty"`
}

// FilterConfig overrides fields of the frequency band one by one
type FilterConfig struct {
	MinCount *int     `yaml:"min_count,omitempty" json:"min_count,omitempty" toml:"min_count,omitempty"`
	MaxShare *float64 `yaml:"max_share,omitempty" json:"max_share,omitempty" toml:"max_share,omitempty"`
}

// PlausibilityConfig overrides the bounds of the text weight band
type PlausibilityConfig struct {
	Low  *float64 `yaml:"low,omitempty" json:"low,omitempty" toml:"low,omitempty"`
	High *float64 `yaml:"high,omitempty" json:"high,omitempty" toml:"high,omitempty"`
}

// ProfilesConfig locates the language profiles
type ProfilesConfig struct {
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty" toml:"dir,omitempty"`
}

// InputConfig defines how documents are found and read
type InputConfig struct {
	Encoding  string   `yaml:"encoding,omitempty" json:"encoding,omitempty" toml:"encoding,omitempty"`
	NFC       *bool    `yaml:"nfc,omitempty" json:"nfc,omitempty" toml:"nfc,omitempty"`
	Jobs      *int     `yaml:"jobs,omitempty" json:"jobs,omitempty" toml:"jobs,omitempty"`
	Exclude   []string `yaml:"exclude,omitempty" json:"exclude,omitempty" toml:"exclude,omitempty"`
	Gitignore *bool    `yaml:"gitignore,omitempty" json:"gitignore,omitempty" toml:"gitignore,omitempty"`
	Kinds     []string `yaml:"kinds,omitempty" json:"kinds,omitempty" toml:"kinds,omitempty"`
}

// OutputConfig defines output settings
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty" toml:"format,omitempty"`
	File   string `yaml:"file,omitempty" json:"file,omitempty" toml:"file,omitempty"`
	Scores *bool  `yaml:"scores,omitempty" json:"scores,omitempty" toml:"scores,omitempty"`
}

// LoadConfigFile loads configuration from a file path or inline JSON.
// The content is validated against the embedded schema before decoding.
func LoadConfigFile(configPath string) (*ConfigFile, error) {
	if configPath == "" {
		return nil, nil
	}

	// Inline JSON starts with {
	if strings.HasPrefix(strings.TrimSpace(configPath), "{") {
		return loadConfigFromJSON(configPath)
	}

	return loadConfigFromFile(configPath)
}

// FindProjectConfig returns the path of ProjectConfigFile in dir, or ""
func FindProjectConfig(dir string) string {
	path := filepath.Join(dir, ProjectConfigFile)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

func loadConfigFromFile(configPath string) (*ConfigFile, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := validation.ValidateContent(validation.ConfigSchema, configPath, data); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	var config ConfigFile
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return &config, nil
}

func loadConfigFromJSON(jsonStr string) (*ConfigFile, error) {
	if err := validation.ValidateYAML(validation.ConfigSchema, []byte(jsonStr)); err != nil {
		return nil, fmt.Errorf("inline config: %w", err)
	}

	var config ConfigFile
	if err := json.Unmarshal([]byte(jsonStr), &config); err != nil {
		return nil, fmt.Errorf("failed to parse inline JSON config: %w", err)
	}
	return &config, nil
}

// MergeWithSettings copies configured values into settings. isSet reports
// whether a command line flag was given explicitly; those settings win
// over the file. A nil isSet treats every flag as unset.
func (c *ConfigFile) MergeWithSettings(settings *Settings, isSet func(flag string) bool) {
	if c == nil || settings == nil {
		return
	}
	if isSet == nil {
		isSet = func(string) bool { return false }
	}

	// Detector
	if c.Detector.MaxTrigrams != nil && !isSet("max-trigrams") {
		settings.MaxTrigrams = *c.Detector.MaxTrigrams
	}
	if f := c.Detector.Filter; f != nil {
		if f.MinCount != nil && !isSet("min-count") {
			settings.Filter.MinCount = *f.MinCount
		}
		if f.MaxShare != nil && !isSet("max-share") {
			settings.Filter.MaxShare = *f.MaxShare
		}
	}
	if p := c.Detector.Plausibility; p != nil {
		if p.Low != nil && !isSet("plausibility-low") {
			settings.Plausibility.Low = *p.Low
		}
		if p.High != nil && !isSet("plausibility-high") {
			settings.Plausibility.High = *p.High
		}
	}

	// Profiles
	if c.Profiles.Dir != "" && !isSet("profiles") {
		settings.ProfilesDir = c.Profiles.Dir
	}

	// Input
	if c.Input.Encoding != "" && !isSet("encoding") {
		settings.Encoding = c.Input.Encoding
	}
	if c.Input.NFC != nil && !isSet("nfc") {
		settings.NFC = *c.Input.NFC
	}
	if c.Input.Jobs != nil && !isSet("jobs") {
		settings.Jobs = *c.Input.Jobs
	}
	if c.Input.Gitignore != nil && !isSet("no-gitignore") {
		settings.Gitignore = *c.Input.Gitignore
	}
	if len(c.Input.Kinds) > 0 && !isSet("kind") {
		settings.Kinds = c.Input.Kinds
	}
	// Excludes accumulate
	settings.ExcludePatterns = mergeExcludes(c.Input.Exclude, settings.ExcludePatterns)

	// Output
	if c.Output.Format != "" && !isSet("format") {
		settings.Format = c.Output.Format
	}
	if c.Output.File != "" && !isSet("output") {
		settings.OutputFile = c.Output.File
	}
	if c.Output.Scores != nil && !isSet("scores") {
		settings.Scores = *c.Output.Scores
	}
}

// mergeExcludes joins config and CLI excludes, dropping duplicates and
// keeping first occurrence order
func mergeExcludes(configExcludes, cliExcludes []string) []string {
	seen := make(map[string]bool, len(configExcludes)+len(cliExcludes))
	result := make([]string, 0, len(configExcludes)+len(cliExcludes))
	for _, list := range [][]string{configExcludes, cliExcludes} {
		for _, exclude := range list {
			if !seen[exclude] {
				seen[exclude] = true
				result = append(result, exclude)
			}
		}
	}
	return result
}
