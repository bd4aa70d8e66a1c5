package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/spetersoncode/finsight/document"
)

// loadPDF returns one document per page with extractable text. Pages are
// numbered from 1.
func loadPDF(path string) ([]document.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	source := filepath.Base(path)
	var docs []document.Document
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract text from %s page %d: %w", source, i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, document.Document{
			PageContent: text,
			Metadata: document.Metadata{
				Source: source,
				Type:   "pdf",
				Page:   document.Page(i),
			},
		})
	}
	return docs, nil
}
