package main

import (
	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "bindery",
	Short: "Split PDF books into per-chapter files along their table of contents",
	Long: `Bindery splits PDF books into a hierarchy of per-chapter PDFs.

It reads the table of contents from the PDF's embedded outline (or from
the printed contents pages via an LLM), resolves each entry to a page
range, and writes one PDF per chapter and subsection, mirrored as a
directory tree and packaged as a zip archive.

Run "bindery serve" for the HTTP API, or "bindery split" to split a
file locally without a server.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bindery/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bindery home directory (default: ~/.bindery)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
