package extractors

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/extractors/docx"
	"github.com/custodia-labs/sercha-rag/internal/extractors/pdf"
	"github.com/custodia-labs/sercha-rag/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps asset kinds to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.AssetKind]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[domain.AssetKind]driven.Extractor),
	}
}

// NewDefaultRegistry creates a registry with the pdf, docx and txt extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}

// Register adds an extractor for every kind it reports.
// A later registration for the same kind replaces the earlier one.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kind := range e.Kinds() {
		r.extractors[kind] = e
	}
}

// Supports returns true if an extractor is registered for kind.
func (r *Registry) Supports(kind domain.AssetKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extractors[kind]
	return ok
}

// Extract runs the extractor registered for kind.
func (r *Registry) Extract(ctx context.Context, kind domain.AssetKind, data []byte) (string, error) {
	r.mu.RLock()
	e, ok := r.extractors[kind]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no extractor for %q: %w", kind, domain.ErrUnsupportedKind)
	}

	text, err := e.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", kind, err)
	}
	return text, nil
}
