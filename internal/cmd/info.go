package cmd

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display information about file kinds and configuration schemas",
	Long:  `Display the linguist languages used to classify walked files by kind, and the embedded JSON schemas for config files and profile manifests.`,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.AddCommand(languagesCmd)
	infoCmd.AddCommand(schemasCmd)
}
