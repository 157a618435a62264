package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/archive"
	"github.com/bindery/bindery/internal/pdf"
	"github.com/bindery/bindery/internal/split"
	"github.com/bindery/bindery/internal/toc"
)

var (
	splitTOCFile string
	splitOutDir  string
	splitZipPath string
	splitTitle   string
)

// SplitResult summarizes a local split run.
type SplitResult struct {
	Title     string `json:"title"`
	Chapters  int    `json:"chapters"`
	Pages     int    `json:"pages"`
	OutputDir string `json:"output_dir"`
	Archive   string `json:"archive,omitempty"`
}

var splitCmd = &cobra.Command{
	Use:   "split <file.pdf>",
	Short: "Split a PDF locally without a server",
	Long: `Split a PDF into per-chapter files along its table of contents.

The TOC comes from the PDF's embedded outline, or from a JSON file via
--toc. Documents with no outline are kept whole as a single chapter.

Examples:
  bindery split book.pdf                     # Split next to the source file
  bindery split book.pdf --toc toc.json      # Split on an edited TOC
  bindery split book.pdf --zip book.zip      # Also package the output tree`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath := args[0]

		doc, err := pdf.Open(pdfPath)
		if err != nil {
			return err
		}
		defer doc.Close()

		title := splitTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
		}

		var tree *toc.Tree
		if splitTOCFile != "" {
			data, err := os.ReadFile(splitTOCFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", splitTOCFile, err)
			}
			tree, err = toc.ParseWire(data)
			if err != nil {
				return fmt.Errorf("invalid TOC in %s: %w", splitTOCFile, err)
			}
		} else {
			tree = toc.Extract(doc, title)
		}

		resolved, err := toc.Resolve(tree, doc.PageCount())
		if err != nil {
			return err
		}

		outDir := splitOutDir
		if outDir == "" {
			outDir = filepath.Join(filepath.Dir(pdfPath), split.SanitizeTitle(title))
		}

		if err := split.Split(doc, resolved, outDir, func(pct int) {
			fmt.Fprintf(os.Stderr, "\rsplitting... %3d%%", pct)
		}); err != nil {
			fmt.Fprintln(os.Stderr)
			return err
		}
		fmt.Fprintln(os.Stderr)

		result := SplitResult{
			Title:     title,
			Chapters:  len(resolved.Chapters),
			Pages:     doc.PageCount(),
			OutputDir: outDir,
		}

		if splitZipPath != "" {
			if err := archive.Zip(outDir, splitZipPath); err != nil {
				return err
			}
			result.Archive = splitZipPath
		}

		return api.Output(result)
	},
}

func init() {
	splitCmd.Flags().StringVar(&splitTOCFile, "toc", "", "JSON file with a TOC to split on")
	splitCmd.Flags().StringVar(&splitOutDir, "out", "", "Output directory (default: next to the source file)")
	splitCmd.Flags().StringVar(&splitZipPath, "zip", "", "Also write a zip archive of the output tree")
	splitCmd.Flags().StringVar(&splitTitle, "title", "", "Output tree title (default: filename)")

	rootCmd.AddCommand(splitCmd)
}
