// Package plaintext extracts text from plain text uploads.
package plaintext

import (
	"bytes"
	"context"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor decodes plain text files as UTF-8.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kinds returns the asset kinds this extractor handles.
func (e *Extractor) Kinds() []domain.AssetKind {
	return []domain.AssetKind{domain.AssetKindText}
}

// Extract decodes data as UTF-8. A leading byte order mark is dropped and
// invalid byte sequences become U+FFFD.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	return strings.ToValidUTF8(string(data), "�"), nil
}
