package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// UploadRequest describes a file to upload and ingest.
type UploadRequest struct {
	UserID      string
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	Asset  *domain.Asset
	Report *domain.IngestReport

	// Reused is true when identical content was already uploaded by the
	// user and the existing asset was re-ingested instead.
	Reused bool
}

// AssetService manages the lifecycle of uploaded assets.
type AssetService interface {
	// Upload stores the file, records the asset and ingests it. If a later
	// step fails, earlier steps are undone. Returns domain.ErrExtractionEmpty
	// when no text could be extracted.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// List returns the user's assets, newest first.
	List(ctx context.Context, userID string) ([]domain.Asset, error)

	// Get returns one of the user's assets.
	Get(ctx context.Context, userID, assetID string) (*domain.Asset, error)

	// Delete removes the stored file, every chunk, and the asset record.
	// Returns the number of chunks removed.
	Delete(ctx context.Context, userID, assetID string) (int, error)
}
