package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// assetStore implements driven.AssetStore.
type assetStore struct {
	store *Store
}

var _ driven.AssetStore = (*assetStore)(nil)

const assetColumns = `id, user_id, filename, kind, content_type, size, storage_key, content_hash, created_at`

// Save inserts the asset record.
func (s *assetStore) Save(ctx context.Context, asset *domain.Asset) error {
	if asset == nil || asset.ID == "" || asset.UserID == "" {
		return fmt.Errorf("asset requires id and user: %w", domain.ErrInvalidInput)
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO assets (`+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, asset.ID, asset.UserID, asset.Filename, string(asset.Kind), asset.ContentType,
		asset.Size, asset.StorageKey, asset.ContentHash, asset.CreatedAt)
	if err != nil {
		return storageErr("saving asset", err)
	}
	return nil
}

// Get retrieves an asset by ID.
func (s *assetStore) Get(ctx context.Context, id string) (*domain.Asset, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	return scanAsset(row)
}

// FindByHash returns the user's most recent asset with the content hash.
func (s *assetStore) FindByHash(ctx context.Context, userID, contentHash string) (*domain.Asset, error) {
	if contentHash == "" {
		return nil, domain.ErrNotFound
	}
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+assetColumns+` FROM assets
		WHERE user_id = ? AND content_hash = ?
		ORDER BY created_at DESC LIMIT 1
	`, userID, contentHash)
	return scanAsset(row)
}

// List returns the user's assets, newest first.
func (s *assetStore) List(ctx context.Context, userID string) ([]domain.Asset, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+assetColumns+` FROM assets
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID)
	if err != nil {
		return nil, storageErr("querying assets", err)
	}
	defer rows.Close()

	var assets []domain.Asset //nolint:prealloc // size unknown from query
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating assets", err)
	}
	return assets, nil
}

// Delete removes the asset record; its chunks go with it via ON DELETE CASCADE.
func (s *assetStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return storageErr("deleting asset", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("deleting asset", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var (
		asset     domain.Asset
		kind      string
		createdAt sql.NullTime
	)
	err := row.Scan(&asset.ID, &asset.UserID, &asset.Filename, &kind, &asset.ContentType,
		&asset.Size, &asset.StorageKey, &asset.ContentHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("scanning asset", err)
	}
	asset.Kind = domain.AssetKind(kind)
	if createdAt.Valid {
		asset.CreatedAt = createdAt.Time
	}
	return &asset, nil
}
