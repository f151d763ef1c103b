package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// IngestionService turns one uploaded asset into stored, queryable chunks.
type IngestionService interface {
	// Ingest extracts, cleans, chunks, embeds and stores the asset content.
	// When no text can be extracted the report's state is aborted and the
	// error is nil; nothing is persisted in that case.
	Ingest(ctx context.Context, asset *domain.Asset, data []byte) (*domain.IngestReport, error)
}
