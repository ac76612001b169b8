package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"log/slog"

	"github.com/petrarca/trigram-langid/internal/textio"
	"github.com/petrarca/trigram-langid/internal/trigram"
	"github.com/petrarca/trigram-langid/internal/util"
)

// Settings holds all langid configuration
type Settings struct {
	// Profiles
	ProfilesDir string

	// Output settings
	OutputFile string // Empty = stdout
	Format     string
	Scores     bool

	// Input
	Jobs            int
	Encoding        string
	NFC             bool
	ExcludePatterns []string
	Gitignore       bool
	Kinds           []string

	// Detector
	MaxTrigrams  int
	Filter       trigram.FrequencyBand
	Plausibility trigram.WeightBand

	// Run behavior
	Verbose      bool
	TraceTimings bool

	// Logging
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
	LogFile   string // Optional: write logs to file instead of stderr
}

// DefaultSettings returns default configuration
func DefaultSettings() *Settings {
	return &Settings{
		ProfilesDir:     "profiles",
		OutputFile:      "",
		Format:          util.FormatText,
		Scores:          false,
		Jobs:            0, // GOMAXPROCS
		Encoding:        textio.DefaultEncoding,
		NFC:             false,
		ExcludePatterns: []string{},
		Gitignore:       true,
		Kinds:           []string{},
		MaxTrigrams:     trigram.DefaultMaxTrigrams,
		Filter:          trigram.FrequencyBand{},
		Plausibility:    trigram.DefaultPlausibility,
		Verbose:         false,
		TraceTimings:    false,
		LogLevel:        slog.LevelError,
		LogFormat:       "text",
		LogFile:         "",
	}
}

// LoadSettings creates settings from defaults and applies environment variable overrides
func LoadSettings() *Settings {
	settings := DefaultSettings()

	if dir := os.Getenv("LANGID_PROFILES"); dir != "" {
		settings.ProfilesDir = dir
	}

	if outputFile := os.Getenv("LANGID_OUTPUT"); outputFile != "" {
		settings.OutputFile = outputFile
	}

	if format := os.Getenv("LANGID_FORMAT"); format != "" {
		settings.Format = util.NormalizeFormat(format)
	}

	if jobs := os.Getenv("LANGID_JOBS"); jobs != "" {
		if n, err := strconv.Atoi(jobs); err == nil {
			settings.Jobs = n
		}
	}

	if maxTrigrams := os.Getenv("LANGID_MAX_TRIGRAMS"); maxTrigrams != "" {
		if n, err := strconv.Atoi(maxTrigrams); err == nil {
			settings.MaxTrigrams = n
		}
	}

	if encoding := os.Getenv("LANGID_ENCODING"); encoding != "" {
		settings.Encoding = encoding
	}

	if nfc := os.Getenv("LANGID_NFC"); nfc != "" {
		settings.NFC = strings.ToLower(nfc) == "true"
	}

	if excludePatterns := os.Getenv("LANGID_EXCLUDE"); excludePatterns != "" {
		settings.ExcludePatterns = splitList(excludePatterns)
	}

	// Logging settings
	if logLevel := os.Getenv("LANGID_LOG_LEVEL"); logLevel != "" {
		if level, err := parseLogLevel(logLevel); err == nil {
			settings.LogLevel = level
		}
	}

	if logFormat := os.Getenv("LANGID_LOG_FORMAT"); logFormat != "" {
		settings.LogFormat = logFormat
	}

	if logFile := os.Getenv("LANGID_LOG_FILE"); logFile != "" {
		settings.LogFile = logFile
	}

	if verbose := os.Getenv("LANGID_VERBOSE"); verbose != "" {
		settings.Verbose = strings.ToLower(verbose) == "true"
	}

	return settings
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return slog.LevelError, nil // slog doesn't have fatal, use error
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// ParseLogLevel is parseLogLevel for flag values
func ParseLogLevel(level string) (slog.Level, error) {
	return parseLogLevel(level)
}

// ConfigureLogger builds the logger described by the settings
func (s *Settings) ConfigureLogger() *slog.Logger {
	var handler slog.Handler

	// Set output destination
	var output io.Writer = os.Stderr
	if s.LogFile != "" {
		file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// Fallback to stderr if file can't be opened
			fmt.Fprintf(os.Stderr, "Warning: Cannot open log file %s: %v\n", s.LogFile, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	opts := &slog.HandlerOptions{
		Level: s.LogLevel,
	}

	if s.LogFormat == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}

// Validate checks if settings are valid
func (s *Settings) Validate() error {
	if err := util.ValidateOutputFormat(s.Format); err != nil {
		return err
	}
	if s.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative: %d", s.Jobs)
	}
	if s.MaxTrigrams < 0 {
		return fmt.Errorf("max trigrams must not be negative: %d", s.MaxTrigrams)
	}
	if err := textio.ValidateEncoding(s.Encoding); err != nil {
		return err
	}
	if s.Filter.MinCount < 0 {
		return fmt.Errorf("filter min count must not be negative: %d", s.Filter.MinCount)
	}
	if s.Filter.MaxShare < 0 || s.Filter.MaxShare > 1 {
		return fmt.Errorf("filter max share must be within [0, 1]: %g", s.Filter.MaxShare)
	}
	if s.Plausibility.Enabled() && s.Plausibility.Low >= s.Plausibility.High {
		return fmt.Errorf("plausibility band is empty: low %g >= high %g", s.Plausibility.Low, s.Plausibility.High)
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s", s.LogFormat)
	}
	return nil
}

// DetectorOptions converts the settings into identifier options
func (s *Settings) DetectorOptions() trigram.Options {
	return trigram.Options{
		MaxTrigrams:  s.MaxTrigrams,
		Filter:       s.Filter,
		Plausibility: s.Plausibility,
	}
}

// TextOptions converts the settings into document decoding options
func (s *Settings) TextOptions() textio.Options {
	return textio.Options{
		Encoding: s.Encoding,
		NFC:      s.NFC,
	}
}
