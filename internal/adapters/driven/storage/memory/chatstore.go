package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure ChatStore implements the interface.
var _ driven.ChatStore = (*ChatStore)(nil)

// ChatStore is an in-memory driven.ChatStore.
type ChatStore struct {
	mu      sync.RWMutex
	entries []domain.ChatEntry
}

// NewChatStore creates an empty in-memory chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{}
}

// Save appends a chat entry.
func (s *ChatStore) Save(_ context.Context, entry *domain.ChatEntry) error {
	if entry == nil || entry.UserID == "" {
		return fmt.Errorf("chat entry requires a user: %w", domain.ErrInvalidInput)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	e := *entry
	e.Sources = slices.Clone(entry.Sources)
	if e.Sources == nil {
		e.Sources = []domain.Source{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// List returns up to limit of the user's entries, newest first.
// A limit <= 0 returns all entries.
func (s *ChatStore) List(_ context.Context, userID string, limit int) ([]domain.ChatEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []domain.ChatEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].UserID != userID {
			continue
		}
		entries = append(entries, s.entries[i])
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}
