package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// VectorStore persists chunk records and answers nearest-neighbour queries.
//
// Records are only ever inserted or deleted in bulk by asset, never mutated,
// so implementations must allow concurrent Store and Query calls without
// external locking.
//
// Implementations:
//   - sqlite: embedded, exact L2 scan via a registered SQL function
//   - memory: in-process, for tests and ephemeral runs
//   - qdrant: remote vector database over gRPC
//   - pgvector: Postgres with the vector extension
type VectorStore interface {
	// Store appends one chunk record.
	// Returns domain.ErrInvalidInput if the chunk has no user, asset or embedding.
	Store(ctx context.Context, chunk *domain.Chunk) error

	// Query returns at most topK chunks owned by userID, nearest first by
	// L2 distance to vector. A non-empty assetIDs restricts results to those
	// assets. topK <= 0 returns an empty slice without error.
	Query(ctx context.Context, userID string, vector []float32, assetIDs []string, topK int) ([]domain.RetrievedChunk, error)

	// DeleteByAsset removes every chunk of the asset and returns how many
	// were removed. Removing zero is not an error.
	DeleteByAsset(ctx context.Context, assetID string) (int, error)

	// DeleteByAssetExcept removes the asset's chunks whose IDs are not in
	// keep and returns how many were removed. An empty keep removes them all.
	DeleteByAssetExcept(ctx context.Context, assetID string, keep []string) (int, error)

	// DeleteByIDs removes the chunks with the given IDs. Unknown IDs are
	// ignored.
	DeleteByIDs(ctx context.Context, ids []string) (int, error)

	// Close releases resources.
	Close() error
}
