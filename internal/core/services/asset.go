package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure AssetService implements the interface.
var _ driving.AssetService = (*AssetService)(nil)

// AssetService uploads, lists and deletes assets.
type AssetService struct {
	assets    driven.AssetStore
	objects   driven.ObjectStore
	vectors   driven.VectorStore
	ingestion driving.IngestionService
}

// NewAssetService creates an asset service.
func NewAssetService(
	assets driven.AssetStore,
	objects driven.ObjectStore,
	vectors driven.VectorStore,
	ingestion driving.IngestionService,
) *AssetService {
	return &AssetService{
		assets:    assets,
		objects:   objects,
		vectors:   vectors,
		ingestion: ingestion,
	}
}

// Upload stores the file, records it and ingests it.
//
// The three steps form a saga. If a step fails, or ingestion aborts because
// no text was found, the completed steps are undone in reverse order.
// Identical content uploaded again by the same user re-ingests the
// existing asset instead of creating a new one.
func (s *AssetService) Upload(ctx context.Context, req driving.UploadRequest) (*driving.UploadResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("upload without user: %w", domain.ErrInvalidInput)
	}
	filename := filepath.Base(strings.ReplaceAll(req.Filename, "\\", "/"))
	if filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("upload without filename: %w", domain.ErrInvalidInput)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("upload of empty file %s: %w", filename, domain.ErrInvalidInput)
	}
	kind, ok := domain.KindForContentType(req.ContentType)
	if !ok {
		return nil, fmt.Errorf("content type %q: %w", req.ContentType, domain.ErrUnsupportedKind)
	}

	sum := sha256.Sum256(req.Data)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.assets.FindByHash(ctx, req.UserID, hash)
	switch {
	case err == nil:
		return s.reingest(ctx, existing, req.Data)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("look up %s: %w", filename, err)
	}

	id := uuid.NewString()
	asset := &domain.Asset{
		ID:          id,
		UserID:      req.UserID,
		Filename:    filename,
		Kind:        kind,
		ContentType: req.ContentType,
		Size:        int64(len(req.Data)),
		StorageKey:  req.UserID + "/" + id + "_" + filename,
		ContentHash: hash,
		CreatedAt:   time.Now().UTC(),
	}

	var undo []func(context.Context)
	rollback := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i](ctx)
		}
	}

	if err := s.objects.Upload(ctx, asset.StorageKey, req.Data, req.ContentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	undo = append(undo, func(ctx context.Context) {
		if err := s.objects.Delete(ctx, asset.StorageKey); err != nil {
			logger.Error("rollback: delete object %s: %v", asset.StorageKey, err)
		}
	})

	if err := s.assets.Save(ctx, asset); err != nil {
		rollback()
		return nil, fmt.Errorf("record %s: %w", filename, err)
	}
	undo = append(undo, func(ctx context.Context) {
		if err := s.assets.Delete(ctx, asset.ID); err != nil {
			logger.Error("rollback: delete asset %s: %v", asset.ID, err)
		}
	})

	report, err := s.ingestion.Ingest(ctx, asset, req.Data)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("ingest %s: %w", filename, err)
	}
	if report.Aborted() {
		rollback()
		return nil, fmt.Errorf("%s: %w", filename, domain.ErrExtractionEmpty)
	}

	logger.Info("uploaded %s as %s (%d chunks)", filename, asset.ID, report.Chunks)
	return &driving.UploadResult{Asset: asset, Report: report}, nil
}

func (s *AssetService) reingest(ctx context.Context, asset *domain.Asset, data []byte) (*driving.UploadResult, error) {
	logger.Info("%s already uploaded as %s; re-ingesting", asset.Filename, asset.ID)
	report, err := s.ingestion.Ingest(ctx, asset, data)
	if err != nil {
		return nil, fmt.Errorf("re-ingest %s: %w", asset.Filename, err)
	}
	if report.Aborted() {
		return nil, fmt.Errorf("%s: %w", asset.Filename, domain.ErrExtractionEmpty)
	}
	return &driving.UploadResult{Asset: asset, Report: report, Reused: true}, nil
}

// List returns the user's assets, newest first.
func (s *AssetService) List(ctx context.Context, userID string) ([]domain.Asset, error) {
	if userID == "" {
		return nil, fmt.Errorf("list without user: %w", domain.ErrInvalidInput)
	}
	return s.assets.List(ctx, userID)
}

// Get returns the asset if the user owns it. Another user's asset is
// reported as not found.
func (s *AssetService) Get(ctx context.Context, userID, assetID string) (*domain.Asset, error) {
	asset, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.UserID != userID {
		return nil, fmt.Errorf("asset %s: %w", assetID, domain.ErrNotFound)
	}
	return asset, nil
}

// Delete removes the asset's chunks, the stored object and the asset
// record, in that order, and returns the number of chunks removed. A failed
// chunk delete leaves everything in place. The object is best effort: a
// failure is logged and the record is still removed.
func (s *AssetService) Delete(ctx context.Context, userID, assetID string) (int, error) {
	asset, err := s.Get(ctx, userID, assetID)
	if err != nil {
		return 0, err
	}

	removed, err := s.vectors.DeleteByAsset(ctx, assetID)
	if err != nil {
		return 0, fmt.Errorf("delete chunks of %s: %w", assetID, err)
	}

	if asset.StorageKey != "" {
		if err := s.objects.Delete(ctx, asset.StorageKey); err != nil {
			logger.Warn("delete object %s of %s: %v", asset.StorageKey, assetID, err)
		}
	}

	if err := s.assets.Delete(ctx, assetID); err != nil {
		return removed, fmt.Errorf("delete asset %s: %w", assetID, err)
	}

	logger.Info("deleted %s (%s), %d chunks", asset.Filename, assetID, removed)
	return removed, nil
}
