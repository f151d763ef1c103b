package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryConfig holds query behaviour settings.
type QueryConfig struct {
	// TopK is used when a question does not set its own.
	TopK int

	// MaxTokens and Temperature are passed to the answer model.
	MaxTokens   int
	Temperature float64

	// Timeout bounds one question. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// QueryService answers questions: embed, retrieve, build prompt, generate.
type QueryService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	prompts  *PromptBuilder
	llm      driven.LLMService
	cfg      QueryConfig
}

// NewQueryService creates a query service.
func NewQueryService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	prompts *PromptBuilder,
	llm driven.LLMService,
	cfg QueryConfig,
) *QueryService {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	return &QueryService{
		embedder: embedder,
		store:    store,
		prompts:  prompts,
		llm:      llm,
		cfg:      cfg,
	}
}

// AnswerQuestion answers q from the user's stored chunks.
//
// Embedding and generation failures are returned. A retrieval failure is
// logged and the question is answered with empty context, which the
// prompt instructs the model to decline.
func (s *QueryService) AnswerQuestion(ctx context.Context, q domain.Question) (*domain.Answer, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}
	if q.UserID == "" {
		return nil, fmt.Errorf("question without user: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	topK := q.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	done := logger.Timed("embed question")
	vector, err := s.embedder.Embed(ctx, q.Text)
	done()
	if err != nil {
		return nil, deadlineErr(fmt.Errorf("embed question: %w", err))
	}

	done = logger.Timed("retrieve")
	chunks, err := s.store.Query(ctx, q.UserID, vector, q.AssetIDs, topK)
	done()
	if err != nil {
		logger.Warn("retrieval failed, answering without context: %v", err)
		chunks = nil
	}
	logger.Debug("retrieved %d chunks (top %d) for user %s", len(chunks), topK, q.UserID)

	prompt := s.prompts.Build(chunks, q.Text)

	done = logger.Timed("generate")
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	done()
	if err != nil {
		return nil, deadlineErr(fmt.Errorf("generate answer: %w", err))
	}

	return &domain.Answer{
		Text:     strings.TrimSpace(text),
		Chunks:   chunks,
		Grounded: len(chunks) > 0,
	}, nil
}
