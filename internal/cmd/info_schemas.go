package cmd

import (
	"fmt"
	"io"

	"github.com/petrarca/trigram-langid/internal/validation"
	"github.com/spf13/cobra"
)

var (
	schemasFormat = "text"
	schemasOutput string
)

var schemasCmd = &cobra.Command{
	Use:   "schemas [name]",
	Short: "List the embedded JSON schemas or print one",
	Long: `Without arguments, list the JSON schemas used to validate config files and
profile manifests. With a schema name, print the schema itself.

Examples:
  langid info schemas
  langid info schemas langid-config.json > langid-config.schema.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchemas,
}

func init() {
	setupOutputFlags(schemasCmd, &schemasFormat, &schemasOutput)
}

// SchemasResult lists the embedded schemas
type SchemasResult struct {
	Schemas []string `json:"schemas" yaml:"schemas" toml:"schemas"`
}

func (r *SchemasResult) ToJSON() interface{} {
	return r
}

func (r *SchemasResult) ToText(w io.Writer, styles Styles) {
	for _, name := range r.Schemas {
		fmt.Fprintln(w, name)
	}
}

func runSchemas(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		content, err := validation.Schema(args[0])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	names, err := validation.ListAvailableSchemas()
	if err != nil {
		return err
	}
	return OutputToFile(&SchemasResult{Schemas: names}, schemasFormat, schemasOutput)
}
