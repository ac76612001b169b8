package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/petrarca/trigram-langid/internal/config"
	"github.com/petrarca/trigram-langid/internal/corpus"
	"github.com/petrarca/trigram-langid/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Settings from defaults and environment; flags bind to its fields
	settings   = config.LoadSettings()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "langid",
	Short: "Trigram based natural language identifier",
	Long: `langid identifies the natural language of text documents by comparing
their character trigram profile with a set of reference language profiles.

Profiles are read from a directory of CSV, JSON, YAML, TOML or msgpack
documents, optionally indexed by a languages.yaml manifest.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (YAML, JSON, TOML) or inline JSON (default: ./"+config.ProjectConfigFile+" if present)")
	flags.StringVarP(&settings.ProfilesDir, "profiles", "p", settings.ProfilesDir, "Directory holding the language profiles")
	flags.BoolVarP(&settings.Verbose, "verbose", "v", settings.Verbose, "Show progress on stderr")

	// Logging flags - use defaults from environment variables
	flags.String("log-level", settings.LogLevel.String(), "Log level: debug, info, warn, error")
	flags.String("log-format", settings.LogFormat, "Log format: text or json")
	flags.String("log-file", settings.LogFile, "Log file path (default: stderr)")
}

// configureLogging sets up logging based on command flags
func configureLogging(cmd *cobra.Command) *slog.Logger {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logFile, _ := cmd.Flags().GetString("log-file")

	if level, err := config.ParseLogLevel(logLevel); err == nil {
		settings.LogLevel = level
	}
	settings.LogFormat = logFormat
	settings.LogFile = logFile

	return settings.ConfigureLogger()
}

// prepareSettings applies the config file and validates the result.
// Flags given on the command line keep their values.
func prepareSettings(cmd *cobra.Command, logger *slog.Logger) error {
	path := configPath
	if path == "" {
		path = config.FindProjectConfig(".")
	}

	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return err
	}
	if cfg != nil {
		logger.Debug("Applying config file", "config", path)
		cfg.MergeWithSettings(settings, cmd.Flags().Changed)
	}

	// -o - means stdout
	if settings.OutputFile == "-" {
		settings.OutputFile = ""
	}
	if settings.OutputFile != "" && !cmd.Flags().Changed("format") && settings.Format == util.FormatText {
		if format := util.FormatFromFile(settings.OutputFile); format != "" {
			settings.Format = format
		}
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// inputArgs reads stdin when no paths are given, unless stdin is a terminal
func inputArgs(args []string, stdinIsTerminal bool) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if stdinIsTerminal {
		return nil, errors.New("no input: pass files, directories, patterns or pipe text to stdin")
	}
	return []string{corpus.StdinPath}, nil
}
