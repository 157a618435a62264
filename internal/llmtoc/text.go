package llmtoc

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// pageText extracts plain text from pages [start, end] inclusive, separated
// by form feeds. Pages that fail text extraction are skipped; scanned books
// with no text layer simply yield an empty string.
func pageText(path string, start, end int) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	numPages := reader.NumPage()
	if start > numPages {
		return "", fmt.Errorf("TOC start page %d is beyond the document's %d pages", start, numPages)
	}
	if end > numPages {
		end = numPages
	}

	var buf strings.Builder
	for i := start; i <= end; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
