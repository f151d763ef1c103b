package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure AssetStore implements the interface.
var _ driven.AssetStore = (*AssetStore)(nil)

// AssetStore is an in-memory driven.AssetStore.
type AssetStore struct {
	mu     sync.RWMutex
	assets map[string]domain.Asset
	seq    map[string]int
	next   int
}

// NewAssetStore creates an empty in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{
		assets: make(map[string]domain.Asset),
		seq:    make(map[string]int),
	}
}

// Save creates the asset record.
func (s *AssetStore) Save(_ context.Context, asset *domain.Asset) error {
	if asset == nil || asset.ID == "" || asset.UserID == "" {
		return fmt.Errorf("asset requires id and user: %w", domain.ErrInvalidInput)
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assets[asset.ID]; exists {
		return fmt.Errorf("asset %s already exists: %w", asset.ID, domain.ErrStorage)
	}
	s.assets[asset.ID] = *asset
	s.seq[asset.ID] = s.next
	s.next++
	return nil
}

// Get retrieves an asset by ID.
func (s *AssetStore) Get(_ context.Context, id string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &asset, nil
}

// FindByHash returns the user's most recent asset with the content hash.
func (s *AssetStore) FindByHash(ctx context.Context, userID, contentHash string) (*domain.Asset, error) {
	if contentHash == "" {
		return nil, domain.ErrNotFound
	}
	assets, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		if assets[i].ContentHash == contentHash {
			return &assets[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns the user's assets, newest first.
func (s *AssetStore) List(_ context.Context, userID string) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var assets []domain.Asset
	for _, a := range s.assets {
		if a.UserID == userID {
			assets = append(assets, a)
		}
	}
	sort.Slice(assets, func(i, j int) bool {
		if !assets[i].CreatedAt.Equal(assets[j].CreatedAt) {
			return assets[i].CreatedAt.After(assets[j].CreatedAt)
		}
		return s.seq[assets[i].ID] > s.seq[assets[j].ID]
	})
	return assets, nil
}

// Delete removes the asset record.
func (s *AssetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.assets, id)
	delete(s.seq, id)
	return nil
}
