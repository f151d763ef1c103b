package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// chatStore implements driven.ChatStore.
type chatStore struct {
	store *Store
}

var _ driven.ChatStore = (*chatStore)(nil)

// Save appends a chat entry.
func (s *chatStore) Save(ctx context.Context, entry *domain.ChatEntry) error {
	if entry == nil || entry.UserID == "" {
		return fmt.Errorf("chat entry requires a user: %w", domain.ErrInvalidInput)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	sources := entry.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO chats (id, user_id, question, answer, sources, grounded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, entry.Question, entry.Answer, string(sourcesJSON),
		entry.Grounded, entry.CreatedAt)
	if err != nil {
		return storageErr("saving chat entry", err)
	}
	return nil
}

// List returns up to limit of the user's entries, newest first.
// A limit <= 0 returns all entries.
func (s *chatStore) List(ctx context.Context, userID string, limit int) ([]domain.ChatEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_id, question, answer, sources, grounded, created_at
		FROM chats WHERE user_id = ?
		ORDER BY seq DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, storageErr("querying chats", err)
	}
	defer rows.Close()

	var entries []domain.ChatEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			e           domain.ChatEntry
			sourcesJSON string
			createdAt   sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Question, &e.Answer, &sourcesJSON,
			&e.Grounded, &createdAt); err != nil {
			return nil, storageErr("scanning chat entry", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &e.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
		if createdAt.Valid {
			e.CreatedAt = createdAt.Time
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating chats", err)
	}
	return entries, nil
}
