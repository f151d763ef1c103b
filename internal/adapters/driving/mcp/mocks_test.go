package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply   *driving.ChatReply
	history []domain.ChatEntry
	err     error

	gotUser     string
	gotQuestion string
	gotAssets   []string
}

func (m *mockChatService) Ask(_ context.Context, userID, question string, assetIDs []string) (*driving.ChatReply, error) {
	m.gotUser, m.gotQuestion, m.gotAssets = userID, question, assetIDs
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func (m *mockChatService) History(_ context.Context, _ string, _ int) ([]domain.ChatEntry, error) {
	return m.history, m.err
}

// mockAssetService is a mock implementation of driving.AssetService.
type mockAssetService struct {
	assets  []domain.Asset
	removed int
	err     error

	deletedID string
}

func (m *mockAssetService) Upload(_ context.Context, _ driving.UploadRequest) (*driving.UploadResult, error) {
	return nil, m.err
}

func (m *mockAssetService) List(_ context.Context, _ string) ([]domain.Asset, error) {
	return m.assets, m.err
}

func (m *mockAssetService) Get(_ context.Context, userID, assetID string) (*domain.Asset, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.assets {
		if m.assets[i].ID == assetID && m.assets[i].UserID == userID {
			return &m.assets[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAssetService) Delete(_ context.Context, _, assetID string) (int, error) {
	m.deletedID = assetID
	return m.removed, m.err
}

func newTestServer(chat *mockChatService, assets *mockAssetService) (*Server, error) {
	ports := &Ports{Chat: chat, UserID: "alice"}
	if assets != nil {
		ports.Assets = assets
	}
	return NewServer(ports)
}
