package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/petrarca/trigram-langid/internal/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Outputter interface for commands with structured output
type Outputter interface {
	// ToJSON returns the data structure for JSON/YAML/TOML marshaling
	ToJSON() interface{}
	// ToText writes human-readable text format
	ToText(w io.Writer, styles Styles)
}

// OutputToFile writes o in format to outputFile, or to stdout when
// outputFile is empty
func OutputToFile(o Outputter, format string, outputFile string) error {
	var out io.Writer = os.Stdout
	var buf bytes.Buffer
	if outputFile != "" {
		out = &buf
	}

	if err := render(out, o, format, stylesFor(out)); err != nil {
		return err
	}
	if outputFile == "" {
		return nil
	}

	if err := os.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Results written to %s\n", outputFile)
	return nil
}

// render encodes o in format onto w
func render(w io.Writer, o Outputter, format string, styles Styles) error {
	switch util.NormalizeFormat(format) {
	case util.FormatJSON:
		data, err := json.MarshalIndent(o.ToJSON(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case util.FormatYAML:
		data, err := yaml.Marshal(o.ToJSON())
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case util.FormatTOML:
		if err := toml.NewEncoder(w).Encode(o.ToJSON()); err != nil {
			return fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return nil
	default: // text
		o.ToText(w, styles)
		return nil
	}
}

// setupFormatFlag configures format flag and validation for a command
func setupFormatFlag(cmd *cobra.Command, formatPtr *string) {
	cmd.Flags().StringVarP(formatPtr, "format", "f", *formatPtr, "Output format: "+fmt.Sprint(util.GetValidFormats()))
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		*formatPtr = util.NormalizeFormat(*formatPtr)
		return util.ValidateOutputFormat(*formatPtr)
	}
}

// setupOutputFlags configures both format and output flags for a command
func setupOutputFlags(cmd *cobra.Command, formatPtr *string, outputPtr *string) {
	setupFormatFlag(cmd, formatPtr)
	cmd.Flags().StringVarP(outputPtr, "output", "o", *outputPtr, "Output file path (default: stdout)")
}
