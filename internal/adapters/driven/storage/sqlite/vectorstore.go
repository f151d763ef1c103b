package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore with an exact scan ordered by
// the vec_l2 SQL function. Rows whose embedding length differs from the
// query vector are skipped.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Store appends one chunk row.
func (s *vectorStore) Store(ctx context.Context, chunk *domain.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	if chunk.ID == "" {
		chunk.ID = uuid.NewString()
	}

	metadataJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling chunk metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO chunks (id, user_id, asset_id, position, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, chunk.ID, chunk.UserID, chunk.AssetID, chunk.Position, chunk.Content,
		float32SliceToBytes(chunk.Embedding), string(metadataJSON))
	if err != nil {
		return storageErr("storing chunk", err)
	}
	return nil
}

// Query returns the topK nearest chunks of userID.
func (s *vectorStore) Query(
	ctx context.Context,
	userID string,
	vector []float32,
	assetIDs []string,
	topK int,
) ([]domain.RetrievedChunk, error) {
	if topK <= 0 {
		return []domain.RetrievedChunk{}, nil
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector: %w", domain.ErrInvalidInput)
	}

	query := `
		SELECT asset_id, content, metadata, vec_l2(embedding, ?) AS distance
		FROM chunks
		WHERE user_id = ? AND length(embedding) = ?`
	blob := float32SliceToBytes(vector)
	args := []any{blob, userID, len(blob)}

	if len(assetIDs) > 0 {
		query += " AND asset_id IN (" + placeholders(len(assetIDs)) + ")"
		args = append(args, stringArgs(assetIDs)...)
	}
	query += " ORDER BY distance ASC, seq ASC LIMIT ?"
	args = append(args, topK)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("querying chunks", err)
	}
	defer rows.Close()

	results := make([]domain.RetrievedChunk, 0, topK)
	for rows.Next() {
		var (
			rc           domain.RetrievedChunk
			metadataJSON string
		)
		if err := rows.Scan(&rc.AssetID, &rc.Content, &metadataJSON, &rc.Distance); err != nil {
			return nil, storageErr("scanning chunk", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &rc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
		}
		results = append(results, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating chunks", err)
	}

	return results, nil
}

// DeleteByAsset removes every chunk of the asset.
func (s *vectorStore) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	return s.exec(ctx, "DELETE FROM chunks WHERE asset_id = ?", assetID)
}

// DeleteByAssetExcept removes the asset's chunks not listed in keep.
func (s *vectorStore) DeleteByAssetExcept(ctx context.Context, assetID string, keep []string) (int, error) {
	if len(keep) == 0 {
		return s.DeleteByAsset(ctx, assetID)
	}
	args := append([]any{assetID}, stringArgs(keep)...)
	return s.exec(ctx, "DELETE FROM chunks WHERE asset_id = ? AND id NOT IN ("+placeholders(len(keep))+")", args...)
}

// DeleteByIDs removes the chunks with the given IDs.
func (s *vectorStore) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.exec(ctx, "DELETE FROM chunks WHERE id IN ("+placeholders(len(ids))+")", stringArgs(ids)...)
}

func (s *vectorStore) exec(ctx context.Context, query string, args ...any) (int, error) {
	res, err := s.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storageErr("deleting chunks", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("counting deleted chunks", err)
	}
	return int(n), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// Close is a no-op; the database is owned by Store.
func (s *vectorStore) Close() error {
	return nil
}
