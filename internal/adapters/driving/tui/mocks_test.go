package tui

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	AskFunc     func(ctx context.Context, userID, question string, assetIDs []string) (*driving.ChatReply, error)
	HistoryFunc func(ctx context.Context, userID string, limit int) ([]domain.ChatEntry, error)
}

func (m *MockChatService) Ask(
	ctx context.Context, userID, question string, assetIDs []string,
) (*driving.ChatReply, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, userID, question, assetIDs)
	}
	return &driving.ChatReply{Answer: "ok"}, nil
}

func (m *MockChatService) History(ctx context.Context, userID string, limit int) ([]domain.ChatEntry, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID, limit)
	}
	return nil, nil
}

// MockAssetService implements driving.AssetService for testing.
type MockAssetService struct {
	ListFunc   func(ctx context.Context, userID string) ([]domain.Asset, error)
	DeleteFunc func(ctx context.Context, userID, assetID string) (int, error)
}

func (m *MockAssetService) Upload(context.Context, driving.UploadRequest) (*driving.UploadResult, error) {
	return nil, domain.ErrInvalidInput
}

func (m *MockAssetService) List(ctx context.Context, userID string) ([]domain.Asset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAssetService) Get(context.Context, string, string) (*domain.Asset, error) {
	return nil, domain.ErrNotFound
}

func (m *MockAssetService) Delete(ctx context.Context, userID, assetID string) (int, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, assetID)
	}
	return 0, nil
}
