package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
)

// Result is the outcome of extracting a document's text. Text carries one
// literal "--- PAGE <n> ---" marker (1-indexed) ahead of each page, in
// physical page order; PageCount equals the number of markers.
type Result struct {
	Text      string
	PageCount int
}

// Ingestor converts PDF bytes into page-delimited plain text. It holds no
// per-document state and is safe to share across goroutines.
type Ingestor struct {
	logger *zap.Logger
}

func NewIngestor(logger *zap.Logger) *Ingestor {
	return &Ingestor{logger: logger}
}

// ExtractText extracts every page of the PDF, all-or-nothing: any page that
// fails to parse fails the whole document with an *domain.IngestionError.
func (in *Ingestor) ExtractText(data []byte) (*Result, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.IngestionError{Err: fmt.Errorf("open pdf: %w", err)}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, &domain.IngestionError{Err: fmt.Errorf("read page count: %w", err)}
	}

	pages := make([]string, 0, numPages)
	for n := 1; n <= numPages; n++ {
		page, err := reader.GetPage(n)
		if err != nil {
			return nil, &domain.IngestionError{Err: fmt.Errorf("load page %d: %w", n, err)}
		}

		ex, err := extractor.New(page)
		if err != nil {
			return nil, &domain.IngestionError{Err: fmt.Errorf("build extractor for page %d: %w", n, err)}
		}

		text, err := ex.ExtractText()
		if err != nil {
			return nil, &domain.IngestionError{Err: fmt.Errorf("extract text from page %d: %w", n, err)}
		}
		pages = append(pages, text)
	}

	in.logger.Debug("document ingested", zap.Int("pages", len(pages)))

	return &Result{Text: joinPages(pages), PageCount: len(pages)}, nil
}

// joinPages renders page texts behind their 1-indexed markers, preserving
// page order.
func joinPages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for i, text := range pages {
		parts = append(parts, fmt.Sprintf("\n--- PAGE %d ---\n%s", i+1, text))
	}
	return strings.Join(parts, "\n")
}
