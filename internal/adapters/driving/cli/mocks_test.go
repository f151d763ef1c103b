package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// mockAssetService implements driving.AssetService for testing.
type mockAssetService struct {
	assets    []domain.Asset
	uploads   []driving.UploadRequest
	uploadErr map[string]error
	reused    bool
	listErr   error
	deleted   []string
	deleteErr error
	users     []string
}

func (m *mockAssetService) Upload(_ context.Context, req driving.UploadRequest) (*driving.UploadResult, error) {
	m.uploads = append(m.uploads, req)
	m.users = append(m.users, req.UserID)
	if err := m.uploadErr[req.Filename]; err != nil {
		return nil, err
	}
	kind, _ := domain.KindForContentType(req.ContentType)
	return &driving.UploadResult{
		Asset:  &domain.Asset{ID: "id-" + req.Filename, Filename: req.Filename, Kind: kind},
		Report: &domain.IngestReport{Chunks: 2, State: domain.IngestStateDone},
		Reused: m.reused,
	}, nil
}

func (m *mockAssetService) List(_ context.Context, userID string) ([]domain.Asset, error) {
	m.users = append(m.users, userID)
	return m.assets, m.listErr
}

func (m *mockAssetService) Get(_ context.Context, userID, assetID string) (*domain.Asset, error) {
	m.users = append(m.users, userID)
	for i := range m.assets {
		if m.assets[i].ID == assetID {
			return &m.assets[i], nil
		}
	}
	return nil, fmt.Errorf("asset %s: %w", assetID, domain.ErrNotFound)
}

func (m *mockAssetService) Delete(_ context.Context, userID, assetID string) (int, error) {
	m.users = append(m.users, userID)
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deleted = append(m.deleted, assetID)
	return 3, nil
}

type askCall struct {
	userID   string
	question string
	assetIDs []string
}

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	reply      *driving.ChatReply
	err        error
	history    []domain.ChatEntry
	historyErr error
	calls      []askCall
	limits     []int
}

func (m *mockChatService) Ask(_ context.Context, userID, question string, assetIDs []string) (*driving.ChatReply, error) {
	m.calls = append(m.calls, askCall{userID: userID, question: question, assetIDs: assetIDs})
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func (m *mockChatService) History(_ context.Context, _ string, limit int) ([]domain.ChatEntry, error) {
	m.limits = append(m.limits, limit)
	return m.history, m.historyErr
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	getErr   error
	values   map[string]string
	setErr   error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"chunking.size", "llm.api_key", "user.id"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockWatcher implements driving.Watcher for testing.
type mockWatcher struct {
	dir      string
	user     string
	debounce time.Duration
	err      error
	started  bool
}

func (m *mockWatcher) Start(context.Context) error {
	m.started = true
	return m.err
}

func (m *mockWatcher) Stop() error { return nil }

type testServices struct {
	assets   *mockAssetService
	chat     *mockChatService
	settings *mockSettingsService
}

// setupTestServices installs mocks and returns a cleanup that restores the
// package state, including flag variables that persist between executions.
func setupTestServices() (*testServices, func()) {
	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "sk-test-embedding-key"
	settings.LLM.APIKey = "sk-test-llm-key-1234"

	svc := &testServices{
		assets: &mockAssetService{uploadErr: map[string]error{}},
		chat: &mockChatService{reply: &driving.ChatReply{
			Answer:   "The launch is in May.",
			Sources:  []domain.Source{{Filename: "plan.pdf", Type: domain.AssetKindPDF}},
			Grounded: true,
		}},
		settings: &mockSettingsService{settings: settings, values: map[string]string{}},
	}
	SetServices(Services{Assets: svc.assets, Chat: svc.chat, Settings: svc.settings})

	origTerminal, origRunApp, origWatcher := stdinIsTerminal, runApp, newWatcher
	stdinIsTerminal = func() bool { return false }

	return svc, func() {
		SetServices(Services{})
		stdinIsTerminal, runApp, newWatcher = origTerminal, origRunApp, origWatcher
		userID, verbose = "", false
		ingestType, ingestJSON = "", false
		askAssets, askJSON = nil, false
		assetsJSON = false
		historyLimit, historyJSON = 10, false
		watchDebounce = filesystem.DefaultDebounce
	}
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
