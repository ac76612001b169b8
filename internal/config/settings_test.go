package config

import (
	"testing"

	"log/slog"

	"github.com/petrarca/trigram-langid/internal/trigram"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, "profiles", settings.ProfilesDir)
	assert.Empty(t, settings.OutputFile, "output goes to stdout by default")
	assert.Equal(t, "text", settings.Format)
	assert.Equal(t, 600, settings.MaxTrigrams)
	assert.Equal(t, "utf-8", settings.Encoding)
	assert.True(t, settings.Gitignore)
	assert.Empty(t, settings.ExcludePatterns)
	assert.Equal(t, trigram.DefaultPlausibility, settings.Plausibility)
	assert.False(t, settings.Filter.Enabled(), "no frequency filter by default")
	assert.Equal(t, slog.LevelError, settings.LogLevel, "LogLevel should be Error by default")
	assert.Equal(t, "text", settings.LogFormat)
	assert.NoError(t, settings.Validate())
}

func TestLoadSettings_WithDefaults(t *testing.T) {
	clearEnvVars(t)

	assert.Equal(t, DefaultSettings(), LoadSettings())
}

func TestLoadSettings_WithEnvironmentVariables(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("LANGID_PROFILES", "/srv/profiles")
	t.Setenv("LANGID_OUTPUT", "/tmp/results.json")
	t.Setenv("LANGID_FORMAT", "JSON")
	t.Setenv("LANGID_JOBS", "4")
	t.Setenv("LANGID_MAX_TRIGRAMS", "0")
	t.Setenv("LANGID_ENCODING", "latin1")
	t.Setenv("LANGID_NFC", "true")
	t.Setenv("LANGID_EXCLUDE", "drafts,**/*.bak")
	t.Setenv("LANGID_LOG_LEVEL", "debug")
	t.Setenv("LANGID_LOG_FORMAT", "json")
	t.Setenv("LANGID_LOG_FILE", "/tmp/langid.log")
	t.Setenv("LANGID_VERBOSE", "TRUE")

	settings := LoadSettings()

	assert.Equal(t, "/srv/profiles", settings.ProfilesDir)
	assert.Equal(t, "/tmp/results.json", settings.OutputFile)
	assert.Equal(t, "json", settings.Format)
	assert.Equal(t, 4, settings.Jobs)
	assert.Equal(t, 0, settings.MaxTrigrams)
	assert.Equal(t, "latin1", settings.Encoding)
	assert.True(t, settings.NFC)
	assert.Equal(t, []string{"drafts", "**/*.bak"}, settings.ExcludePatterns)
	assert.Equal(t, slog.LevelDebug, settings.LogLevel)
	assert.Equal(t, "json", settings.LogFormat)
	assert.Equal(t, "/tmp/langid.log", settings.LogFile)
	assert.True(t, settings.Verbose)
}

func TestLoadSettings_InvalidValuesKeepDefaults(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("LANGID_LOG_LEVEL", "invalid")
	t.Setenv("LANGID_JOBS", "many")
	t.Setenv("LANGID_MAX_TRIGRAMS", "lots")

	settings := LoadSettings()

	assert.Equal(t, slog.LevelError, settings.LogLevel)
	assert.Equal(t, 0, settings.Jobs)
	assert.Equal(t, 600, settings.MaxTrigrams)
}

func TestLoadSettings_BooleanParsing(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"true uppercase", "TRUE", true},
		{"false lowercase", "false", false},
		{"invalid value", "maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv("LANGID_VERBOSE", tt.envValue)

			assert.Equal(t, tt.expected, LoadSettings().Verbose)
		})
	}
}

func TestLoadSettings_ExcludePatternsParsing(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected []string
	}{
		{"single pattern", "drafts", []string{"drafts"}},
		{"multiple patterns", "drafts,*.bak", []string{"drafts", "*.bak"}},
		{"with spaces", "drafts , *.bak , build", []string{"drafts", "*.bak", "build"}},
		{"empty string", "", []string{}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv("LANGID_EXCLUDE", tt.envValue)

			assert.Equal(t, tt.expected, LoadSettings().ExcludePatterns)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"fatal", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	for _, format := range []string{"text", "json", "invalid"} {
		t.Run(format, func(t *testing.T) {
			settings := &Settings{LogLevel: slog.LevelWarn, LogFormat: format}
			logger := settings.ConfigureLogger()
			assert.NotNil(t, logger)
			assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
			assert.True(t, logger.Enabled(t.Context(), slog.LevelError))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr string
	}{
		{"defaults", func(*Settings) {}, ""},
		{"unknown format", func(s *Settings) { s.Format = "xml" }, "invalid format"},
		{"negative jobs", func(s *Settings) { s.Jobs = -1 }, "jobs"},
		{"negative cap", func(s *Settings) { s.MaxTrigrams = -5 }, "max trigrams"},
		{"unknown encoding", func(s *Settings) { s.Encoding = "klingon" }, "unsupported encoding"},
		{"share above one", func(s *Settings) { s.Filter.MaxShare = 1.5 }, "max share"},
		{"negative min count", func(s *Settings) { s.Filter.MinCount = -1 }, "min count"},
		{"empty band", func(s *Settings) { s.Plausibility = trigram.WeightBand{Low: 0.5, High: 0.5} }, "plausibility"},
		{"band disabled", func(s *Settings) { s.Plausibility = trigram.WeightBand{} }, ""},
		{"log format", func(s *Settings) { s.LogFormat = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.modify(settings)
			err := settings.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDetectorAndTextOptions(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxTrigrams = 100
	settings.Filter = trigram.FrequencyBand{MinCount: 2}
	settings.Encoding = "latin1"
	settings.NFC = true

	opts := settings.DetectorOptions()
	assert.Equal(t, 100, opts.MaxTrigrams)
	assert.Equal(t, 2, opts.Filter.MinCount)
	assert.Equal(t, trigram.DefaultPlausibility, opts.Plausibility)

	text := settings.TextOptions()
	assert.Equal(t, "latin1", text.Encoding)
	assert.True(t, text.NFC)
}

// clearEnvVars blanks every variable LoadSettings reads for the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, envVar := range []string{
		"LANGID_PROFILES",
		"LANGID_OUTPUT",
		"LANGID_FORMAT",
		"LANGID_JOBS",
		"LANGID_MAX_TRIGRAMS",
		"LANGID_ENCODING",
		"LANGID_NFC",
		"LANGID_EXCLUDE",
		"LANGID_LOG_LEVEL",
		"LANGID_LOG_FORMAT",
		"LANGID_LOG_FILE",
		"LANGID_VERBOSE",
	} {
		t.Setenv(envVar, "")
	}
}
