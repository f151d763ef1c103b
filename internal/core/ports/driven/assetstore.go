package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// AssetStore persists asset records.
type AssetStore interface {
	// Save creates the asset record.
	Save(ctx context.Context, asset *domain.Asset) error

	// Get retrieves an asset by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.Asset, error)

	// FindByHash returns the user's asset with the given content hash,
	// or domain.ErrNotFound.
	FindByHash(ctx context.Context, userID, contentHash string) (*domain.Asset, error)

	// List returns the user's assets, newest first.
	List(ctx context.Context, userID string) ([]domain.Asset, error)

	// Delete removes the asset record. Returns domain.ErrNotFound if missing.
	Delete(ctx context.Context, id string) error
}

// ChatStore persists question/answer history.
type ChatStore interface {
	// Save appends a chat entry.
	Save(ctx context.Context, entry *domain.ChatEntry) error

	// List returns up to limit of the user's entries, newest first.
	List(ctx context.Context, userID string, limit int) ([]domain.ChatEntry, error)
}
