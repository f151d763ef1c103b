package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ChatReply is an answer prepared for display.
type ChatReply struct {
	Answer   string
	Sources  []domain.Source
	Grounded bool

	// Greeting is true when the question was small talk answered without
	// retrieval.
	Greeting bool
}

// ChatService is the conversational front of the query pipeline.
// It handles greetings, deduplicates sources and records history.
type ChatService interface {
	// Ask answers a question for the user.
	Ask(ctx context.Context, userID, question string, assetIDs []string) (*ChatReply, error)

	// History returns up to limit of the user's past exchanges, newest first.
	History(ctx context.Context, userID string, limit int) ([]domain.ChatEntry, error)
}
