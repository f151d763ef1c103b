package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/chunker"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionConfig holds ingestion behaviour settings.
type IngestionConfig struct {
	// StrictKinds makes an asset kind without an extractor an error
	// instead of empty text.
	StrictKinds bool

	// SignedURLTTL is the lifetime of image URLs given to the vision model.
	SignedURLTTL time.Duration

	// Timeout bounds one run. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// IngestionService runs the extract, clean, chunk, embed and store
// pipeline for one asset.
type IngestionService struct {
	extractors driven.ExtractorRegistry
	chunker    *chunker.Chunker
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	objects    driven.ObjectStore
	vision     driven.VisionService
	cfg        IngestionConfig
}

// NewIngestionService creates an ingestion service.
// objects and vision are optional (can be nil); without vision, image
// assets fail with domain.ErrVisionUnavailable.
func NewIngestionService(
	extractors driven.ExtractorRegistry,
	chunker *chunker.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	objects driven.ObjectStore,
	vision driven.VisionService,
	cfg IngestionConfig,
) *IngestionService {
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = domain.DefaultSignedURLTTL
	}
	return &IngestionService{
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		objects:    objects,
		vision:     vision,
		cfg:        cfg,
	}
}

// Ingest turns the asset's bytes into stored chunks.
//
// Existing chunks of the asset are replaced, so re-ingesting never
// duplicates. Every chunk is embedded before anything is written. The new
// chunks are written first and the previous ones removed afterwards, so a
// failed write removes only this run's chunks and the asset keeps its old
// ones. Empty extracted text aborts the run with a nil error.
func (s *IngestionService) Ingest(ctx context.Context, asset *domain.Asset, data []byte) (*domain.IngestReport, error) {
	if asset == nil || asset.ID == "" || asset.UserID == "" {
		return nil, fmt.Errorf("ingest requires an asset with id and user: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	logger.Section("Ingest " + asset.Filename)
	start := time.Now()
	report := &domain.IngestReport{AssetID: asset.ID}
	finish := func(state domain.IngestState) *domain.IngestReport {
		report.State = state
		report.Duration = time.Since(start)
		logger.Info("ingest %s: %s, %d chunks (%d replaced) in %s",
			asset.ID, state, report.Chunks, report.Replaced, report.Duration.Round(time.Millisecond))
		return report
	}

	report.State = domain.IngestStateExtracting
	done := logger.Timed("extract")
	raw, err := s.extract(ctx, asset, data)
	done()
	if err != nil {
		return nil, deadlineErr(fmt.Errorf("extract %s: %w", asset.Filename, err))
	}

	report.State = domain.IngestStateCleaning
	text := chunker.Clean(raw)
	report.TextLength = len([]rune(text))
	if text == "" {
		logger.Warn("no text extracted from %s; nothing stored", asset.Filename)
		return finish(domain.IngestStateAborted), nil
	}

	report.State = domain.IngestStateChunking
	done = logger.Timed("chunk")
	windows := s.chunker.Chunk(text)
	done()
	logger.Debug("%d chars -> %d chunks", report.TextLength, len(windows))

	report.State = domain.IngestStateEmbedding
	done = logger.Timed("embed")
	chunks, err := s.embed(ctx, asset, windows)
	done()
	if err != nil {
		return nil, deadlineErr(err)
	}

	done = logger.Timed("store")
	ids := make([]string, len(chunks))
	for i := range chunks {
		if err := s.store.Store(ctx, &chunks[i]); err != nil {
			done()
			s.compensate(asset.ID, ids[:i])
			return nil, deadlineErr(fmt.Errorf("store chunk %d of %s: %w", i, asset.ID, err))
		}
		ids[i] = chunks[i].ID
		report.Chunks++
	}

	replaced, err := s.store.DeleteByAssetExcept(ctx, asset.ID, ids)
	done()
	if err != nil {
		s.compensate(asset.ID, ids)
		return nil, deadlineErr(fmt.Errorf("replace chunks of %s: %w", asset.ID, err))
	}
	report.Replaced = replaced

	return finish(domain.IngestStateDone), nil
}

// extract returns the raw text of the asset.
func (s *IngestionService) extract(ctx context.Context, asset *domain.Asset, data []byte) (string, error) {
	if asset.Kind == domain.AssetKindImage {
		return s.describeImage(ctx, asset, data)
	}
	if s.extractors != nil && s.extractors.Supports(asset.Kind) {
		return s.extractors.Extract(ctx, asset.Kind, data)
	}
	if s.cfg.StrictKinds {
		return "", fmt.Errorf("kind %q: %w", asset.Kind, domain.ErrUnsupportedKind)
	}
	logger.Warn("no extractor for kind %q; treating %s as empty", asset.Kind, asset.Filename)
	return "", nil
}

// describeImage asks the vision model for the image's text and content.
// The image is passed as a signed object-store URL when the asset has been
// uploaded, otherwise inline as a data: URL.
func (s *IngestionService) describeImage(ctx context.Context, asset *domain.Asset, data []byte) (string, error) {
	if s.vision == nil {
		return "", domain.ErrVisionUnavailable
	}

	var url string
	if s.objects != nil && asset.StorageKey != "" {
		signed, err := s.objects.SignedURL(ctx, asset.StorageKey, s.cfg.SignedURLTTL)
		if err != nil {
			return "", fmt.Errorf("sign image url: %w", err)
		}
		url = signed
	} else {
		contentType := asset.ContentType
		if contentType == "" {
			contentType = domain.ContentTypePNG
		}
		url = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	}

	logger.Debug("describing image %s with %s", asset.Filename, s.vision.ModelName())
	return s.vision.Describe(ctx, url)
}

// embed embeds each window and builds the chunk records.
func (s *IngestionService) embed(ctx context.Context, asset *domain.Asset, windows []string) ([]domain.Chunk, error) {
	dims := s.embedder.Dimensions()
	chunks := make([]domain.Chunk, 0, len(windows))
	for i, w := range windows {
		vec, err := s.embedder.Embed(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %s: %w", i, asset.ID, err)
		}
		if dims > 0 && len(vec) != dims {
			return nil, fmt.Errorf("chunk %d of %s: got %d dimensions, want %d: %w",
				i, asset.ID, len(vec), dims, domain.ErrDimensionMismatch)
		}
		chunks = append(chunks, domain.Chunk{
			ID:        uuid.NewString(),
			UserID:    asset.UserID,
			AssetID:   asset.ID,
			Position:  i,
			Content:   w,
			Embedding: vec,
			Metadata: map[string]string{
				domain.MetaFilename: asset.Filename,
				domain.MetaType:     string(asset.Kind),
			},
		})
	}
	return chunks, nil
}

// compensate removes the chunks written by a failed run. It runs on a
// fresh context so an expired run can still clean up.
func (s *IngestionService) compensate(assetID string, ids []string) {
	if len(ids) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.store.DeleteByIDs(ctx, ids); err != nil {
		logger.Error("removing %d partial chunks of %s: %v", len(ids), assetID, err)
		return
	}
	logger.Warn("removed %d partial chunks of %s", len(ids), assetID)
}

// deadlineErr marks a run that hit its deadline as an external failure.
func deadlineErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrExternalService) {
		return fmt.Errorf("%w: %w", domain.ErrExternalService, err)
	}
	return err
}
