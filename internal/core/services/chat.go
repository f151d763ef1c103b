package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

var greetings = map[string]bool{
	"hi":             true,
	"hello":          true,
	"hey":            true,
	"hy":             true,
	"how are you":    true,
	"good morning":   true,
	"good afternoon": true,
}

// IsGreeting reports whether text is small talk answered without retrieval.
// Case and trailing "?", "!" and "." are ignored.
func IsGreeting(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimRight(t, "?!.")
	return greetings[strings.TrimSpace(t)]
}

func greetingReply(userID string) string {
	return "Hello " + userID + "! 👋 I'm doing great. I've analyzed your files and I'm ready to help " +
		"you find whatever you need. What can I look up for you today?"
}

// ChatService wraps the query service with greetings and history.
type ChatService struct {
	query   driving.QueryService
	history driven.ChatStore
}

// NewChatService creates a chat service. history is optional (can be nil).
func NewChatService(query driving.QueryService, history driven.ChatStore) *ChatService {
	return &ChatService{query: query, history: history}
}

// Ask answers the question and records the exchange.
func (s *ChatService) Ask(ctx context.Context, userID, question string, assetIDs []string) (*driving.ChatReply, error) {
	if userID == "" {
		return nil, fmt.Errorf("ask without user: %w", domain.ErrInvalidInput)
	}

	if IsGreeting(question) {
		reply := &driving.ChatReply{
			Answer:   greetingReply(userID),
			Sources:  []domain.Source{},
			Greeting: true,
		}
		s.record(ctx, userID, question, reply)
		return reply, nil
	}

	ans, err := s.query.AnswerQuestion(ctx, domain.Question{
		UserID:   userID,
		Text:     question,
		AssetIDs: assetIDs,
	})
	if err != nil {
		return nil, err
	}

	reply := &driving.ChatReply{
		Answer:   ans.Text,
		Sources:  ans.Sources(),
		Grounded: ans.Grounded,
	}
	s.record(ctx, userID, question, reply)
	return reply, nil
}

// record saves the exchange. A history failure does not fail the answer.
func (s *ChatService) record(ctx context.Context, userID, question string, reply *driving.ChatReply) {
	if s.history == nil {
		return
	}
	entry := &domain.ChatEntry{
		UserID:   userID,
		Question: strings.TrimSpace(question),
		Answer:   reply.Answer,
		Sources:  reply.Sources,
		Grounded: reply.Grounded,
	}
	if err := s.history.Save(ctx, entry); err != nil {
		logger.Warn("saving chat history: %v", err)
	}
}

// History returns up to limit of the user's past exchanges, newest first.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]domain.ChatEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("history without user: %w", domain.ErrInvalidInput)
	}
	if s.history == nil {
		return []domain.ChatEntry{}, nil
	}
	return s.history.List(ctx, userID, limit)
}
