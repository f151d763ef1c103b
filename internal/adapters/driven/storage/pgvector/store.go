// Package pgvector implements driven.VectorStore on Postgres with the
// vector extension, through gorm. Distances use the <-> (L2) operator.
package pgvector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// chunkRow is the rag_chunks table. The embedding column is an unsized
// vector so one table can hold any model's vectors; queries filter on
// vector_dims.
type chunkRow struct {
	Seq       int64           `gorm:"primaryKey;autoIncrement"`
	ID        string          `gorm:"type:text;uniqueIndex;not null"`
	UserID    string          `gorm:"type:text;index;not null"`
	AssetID   string          `gorm:"type:text;index;not null"`
	Position  int             `gorm:"not null"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector;not null"`
	Metadata  string          `gorm:"type:text;not null;default:'{}'"`
}

// TableName implements gorm's Tabler.
func (chunkRow) TableName() string { return "rag_chunks" }

// Config configures the Postgres store.
type Config struct {
	// DSN is a libpq connection string or URL.
	DSN string
}

// Store is a Postgres-backed driven.VectorStore.
type Store struct {
	db *gorm.DB
}

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// New connects, enables the vector extension and migrates rag_chunks.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector store requires a DSN: %w", domain.ErrConfiguration)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, storageErr("connecting", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return storageErr("enabling vector extension", err)
	}
	if err := db.AutoMigrate(&chunkRow{}); err != nil {
		return storageErr("migrating rag_chunks", err)
	}
	return nil
}

// Store inserts one chunk row.
func (s *Store) Store(ctx context.Context, chunk *domain.Chunk) error {
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

	row := chunkRow{
		ID:        chunk.ID,
		UserID:    chunk.UserID,
		AssetID:   chunk.AssetID,
		Position:  chunk.Position,
		Content:   chunk.Content,
		Embedding: pgvector.NewVector(chunk.Embedding),
		Metadata:  string(metadataJSON),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storageErr("inserting chunk", err)
	}
	return nil
}

type queryRow struct {
	AssetID  string
	Content  string
	Metadata string
	Distance float64
}

// Query returns the topK nearest chunks of userID, ties broken by
// insertion order. Rows of a different dimension are skipped.
func (s *Store) Query(
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

	q := s.db.WithContext(ctx).
		Model(&chunkRow{}).
		Select("asset_id, content, metadata, embedding <-> ? AS distance", pgvector.NewVector(vector)).
		Where("user_id = ? AND vector_dims(embedding) = ?", userID, len(vector))
	if len(assetIDs) > 0 {
		q = q.Where("asset_id IN ?", assetIDs)
	}

	var rows []queryRow
	if err := q.Order("distance ASC, seq ASC").Limit(topK).Scan(&rows).Error; err != nil {
		return nil, storageErr("querying chunks", err)
	}

	results := make([]domain.RetrievedChunk, 0, len(rows))
	for _, r := range rows {
		rc := domain.RetrievedChunk{AssetID: r.AssetID, Content: r.Content, Distance: r.Distance}
		if err := json.Unmarshal([]byte(r.Metadata), &rc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
		}
		results = append(results, rc)
	}
	return results, nil
}

// DeleteByAsset removes every chunk of the asset.
func (s *Store) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	res := s.db.WithContext(ctx).Where("asset_id = ?", assetID).Delete(&chunkRow{})
	if res.Error != nil {
		return 0, storageErr("deleting chunks", res.Error)
	}
	return int(res.RowsAffected), nil
}

// DeleteByAssetExcept removes the asset's chunks not listed in keep.
func (s *Store) DeleteByAssetExcept(ctx context.Context, assetID string, keep []string) (int, error) {
	if len(keep) == 0 {
		return s.DeleteByAsset(ctx, assetID)
	}
	res := s.db.WithContext(ctx).Where("asset_id = ? AND id NOT IN ?", assetID, keep).Delete(&chunkRow{})
	if res.Error != nil {
		return 0, storageErr("deleting stale chunks", res.Error)
	}
	return int(res.RowsAffected), nil
}

// DeleteByIDs removes the chunks with the given IDs.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&chunkRow{})
	if res.Error != nil {
		return 0, storageErr("deleting chunks", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("pgvector %s: %w: %w", op, domain.ErrStorage, err)
}
