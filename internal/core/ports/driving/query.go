package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// QueryService answers questions from the user's stored chunks.
type QueryService interface {
	// AnswerQuestion embeds the question, retrieves the nearest chunks,
	// and asks the answer model to respond grounded in them.
	AnswerQuestion(ctx context.Context, q domain.Question) (*domain.Answer, error)
}
