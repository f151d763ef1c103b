// Package pdf extracts page text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads text page by page with a pure-Go PDF parser.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kinds returns the asset kinds this extractor handles.
func (e *Extractor) Kinds() []domain.AssetKind {
	return []domain.AssetKind{domain.AssetKindPDF}
}

// Extract returns the text of every page joined with "\n".
// A page that cannot be read contributes an empty string rather than
// failing the document.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := openReader(data)
	if err != nil {
		return "", err
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pages = append(pages, pageText(reader, i))
	}
	return strings.Join(pages, "\n"), nil
}

// openReader parses the document structure. The parser panics on some
// malformed inputs, which is reported as invalid input.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("parse pdf: %v: %w", rec, domain.ErrInvalidInput)
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %v: %w", err, domain.ErrInvalidInput)
	}
	return r, nil
}

func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("pdf page %d unreadable: %v", num, rec)
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		logger.Debug("pdf page %d: %v", num, err)
		return ""
	}
	return text
}
