package memory

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory driven.VectorStore using an exact L2 scan.
type VectorStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Store appends a copy of the chunk.
func (s *VectorStore) Store(_ context.Context, chunk *domain.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	if chunk.ID == "" {
		chunk.ID = uuid.NewString()
	}

	c := *chunk
	c.Embedding = slices.Clone(chunk.Embedding)
	c.Metadata = maps.Clone(chunk.Metadata)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, c)
	return nil
}

// Query returns the topK nearest chunks of userID. Chunks whose embedding
// length differs from vector are skipped; ties keep insertion order.
func (s *VectorStore) Query(
	_ context.Context,
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

	var allowed map[string]bool
	if len(assetIDs) > 0 {
		allowed = make(map[string]bool, len(assetIDs))
		for _, id := range assetIDs {
			allowed[id] = true
		}
	}

	s.mu.RLock()
	results := make([]domain.RetrievedChunk, 0, topK)
	for i := range s.chunks {
		c := &s.chunks[i]
		if c.UserID != userID || len(c.Embedding) != len(vector) {
			continue
		}
		if allowed != nil && !allowed[c.AssetID] {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			AssetID:  c.AssetID,
			Content:  c.Content,
			Metadata: maps.Clone(c.Metadata),
			Distance: L2Distance(vector, c.Embedding),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// DeleteByAsset removes every chunk of the asset.
func (s *VectorStore) DeleteByAsset(_ context.Context, assetID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.chunks)
	s.chunks = slices.DeleteFunc(s.chunks, func(c domain.Chunk) bool {
		return c.AssetID == assetID
	})
	return before - len(s.chunks), nil
}

// DeleteByAssetExcept removes the asset's chunks not listed in keep.
func (s *VectorStore) DeleteByAssetExcept(_ context.Context, assetID string, keep []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.chunks)
	s.chunks = slices.DeleteFunc(s.chunks, func(c domain.Chunk) bool {
		return c.AssetID == assetID && !slices.Contains(keep, c.ID)
	})
	return before - len(s.chunks), nil
}

// DeleteByIDs removes the chunks with the given IDs.
func (s *VectorStore) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.chunks)
	s.chunks = slices.DeleteFunc(s.chunks, func(c domain.Chunk) bool {
		return slices.Contains(ids, c.ID)
	})
	return before - len(s.chunks), nil
}

// Contents returns the content of every stored chunk in insertion order.
func (s *VectorStore) Contents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.chunks))
	for i := range s.chunks {
		out[i] = s.chunks[i].Content
	}
	return out
}

// Count returns the number of stored chunks.
func (s *VectorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

// L2Distance returns the Euclidean distance between a and b, which must
// have equal length.
func L2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
