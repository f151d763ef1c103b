package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

func newTestPorts() *Ports {
	return &Ports{
		Chat:   &MockChatService{},
		Assets: &MockAssetService{},
		UserID: "alice",
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Assets: &MockAssetService{}, UserID: "alice"})

	assert.ErrorIs(t, err, ErrMissingChatService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_AskRoundTrip(t *testing.T) {
	var gotUser, gotQuestion string
	ports := newTestPorts()
	ports.Chat = &MockChatService{
		AskFunc: func(_ context.Context, userID, question string, _ []string) (*driving.ChatReply, error) {
			gotUser, gotQuestion = userID, question
			return &driving.ChatReply{
				Answer:  "The deadline is Friday.",
				Sources: []domain.Source{{Filename: "plan.docx", Type: domain.AssetKindDOCX}},
			}, nil
		},
	}
	app := newTestApp(t, ports)

	for _, r := range "when is it due?" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	app.Update(cmd())

	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "when is it due?", gotQuestion)
	view := app.View()
	assert.Contains(t, view, "The deadline is Friday.")
	assert.Contains(t, view, "plan.docx")
}

func TestApp_AnswerErrorIsRecorded(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.AnswerReceived{Question: "q", Err: domain.ErrLLMUnavailable})

	assert.ErrorIs(t, app.Err(), domain.ErrLLMUnavailable)
}

func TestApp_SwitchViews(t *testing.T) {
	ports := newTestPorts()
	ports.Assets = &MockAssetService{
		ListFunc: func(context.Context, string) ([]domain.Asset, error) {
			return []domain.Asset{{ID: "a1", Filename: "report.pdf", Kind: domain.AssetKindPDF}}, nil
		},
	}
	app := newTestApp(t, ports)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	assert.Equal(t, messages.ViewAssets, app.CurrentView())

	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Contains(t, app.View(), "report.pdf")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Contains(t, app.View(), "1 files")
}

func TestApp_AssetDeletedUpdatesFileCount(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.AssetsLoaded{Assets: []domain.Asset{{ID: "a1"}, {ID: "a2"}}})

	app.Update(messages.AssetDeleted{ID: "a1", Chunks: 3})

	assert.Contains(t, app.View(), "1 files")
}

func TestApp_AssetsLoadError(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.AssetsLoaded{Err: errors.New("store down")})

	assert.EqualError(t, app.Err(), "store down")
}

func TestApp_ErrorOccurredReachesActiveView(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "Error: boom")
}
