package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/petrarca/trigram-langid/internal/config"
	"github.com/petrarca/trigram-langid/internal/profiles"
	"github.com/petrarca/trigram-langid/internal/provider"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the loaded language profiles",
	Long: `Load the profile directory the way identify does and list each language in
candidate order. Ties between languages go to the one listed first.

Examples:
  langid profiles
  langid profiles --profiles ./profiles --format json`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)

	setupOutputFlags(profilesCmd, &settings.Format, &settings.OutputFile)
	profilesCmd.Flags().IntVar(&settings.Filter.MinCount, "min-count", settings.Filter.MinCount, "Drop trigrams counted fewer times than this")
	profilesCmd.Flags().Float64Var(&settings.Filter.MaxShare, "max-share", settings.Filter.MaxShare, "Drop trigrams above this share of all windows (0 = off)")
}

// ProfilesResult lists the loaded profiles
type ProfilesResult struct {
	Dir      string            `json:"dir" yaml:"dir" toml:"dir"`
	Profiles []profiles.Source `json:"profiles" yaml:"profiles" toml:"profiles"`
}

func (r *ProfilesResult) ToJSON() interface{} {
	return r
}

func (r *ProfilesResult) ToText(w io.Writer, styles Styles) {
	fmt.Fprintln(w, styles.Header(fmt.Sprintf("%-8s %-20s %-8s %8s  %s", "CODE", "NAME", "FORMAT", "TRIGRAMS", "PATH")))
	for _, p := range r.Profiles {
		fmt.Fprintf(w, "%s %-20s %-8s %8d  %s\n", styles.Code(fmt.Sprintf("%-8s", p.Code)), p.Name, p.Format, p.Trigrams, p.Path)
	}
	fmt.Fprintln(w, styles.Dim(fmt.Sprintf("\n%d languages in %s", len(r.Profiles), r.Dir)))
}

func runProfiles(cmd *cobra.Command, args []string) error {
	logger := configureLogging(cmd)
	if err := prepareSettings(cmd, logger); err != nil {
		return err
	}
	result, err := listProfiles(settings, logger)
	if err != nil {
		return err
	}
	return OutputToFile(result, settings.Format, settings.OutputFile)
}

func listProfiles(s *config.Settings, logger *slog.Logger) (*ProfilesResult, error) {
	fs := provider.NewFSProvider(".")
	_, sources, err := profiles.NewLoader(fs, s.Filter, logger).Load(s.ProfilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return &ProfilesResult{Dir: s.ProfilesDir, Profiles: sources}, nil
}

