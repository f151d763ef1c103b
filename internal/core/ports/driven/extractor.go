package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Extractor converts the raw bytes of an uploaded file into plain text.
// Each implementation handles one or more asset kinds; images are not
// extracted here but described by a VisionService.
type Extractor interface {
	// Kinds returns the asset kinds this extractor handles.
	Kinds() []domain.AssetKind

	// Extract returns the text content of data.
	// An empty result is valid and means the file has no extractable text.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry dispatches extraction by asset kind.
type ExtractorRegistry interface {
	// Extract runs the extractor registered for kind.
	// Returns domain.ErrUnsupportedKind if none is registered.
	Extract(ctx context.Context, kind domain.AssetKind, data []byte) (string, error)

	// Supports returns true if an extractor is registered for kind.
	Supports(kind domain.AssetKind) bool
}
