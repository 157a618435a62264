package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/pdf"
	"github.com/bindery/bindery/internal/toc"
)

var tocResolve bool

var tocCmd = &cobra.Command{
	Use:   "toc <file.pdf>",
	Short: "Print a PDF's table of contents",
	Long: `Extract and print the table of contents of a local PDF.

With --resolve, every entry also carries its resolved end page, the same
ranges a split would use.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath := args[0]

		doc, err := pdf.Open(pdfPath)
		if err != nil {
			return err
		}
		defer doc.Close()

		title := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
		tree := toc.Extract(doc, title)

		if tocResolve {
			tree, err = toc.Resolve(tree, doc.PageCount())
			if err != nil {
				return err
			}
		}

		return api.Output(tree)
	},
}

func init() {
	tocCmd.Flags().BoolVar(&tocResolve, "resolve", false, "Include resolved end pages")

	rootCmd.AddCommand(tocCmd)
}
