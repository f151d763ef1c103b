// Package assets provides the uploaded files view for the TUI.
package assets

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// View lists the user's files and deletes them on request.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.AssetList
	statusbar *status.Bar

	assets driving.AssetService
	userID string
	ctx    context.Context

	// confirming holds the ID awaiting a second delete press.
	confirming string
	width      int
	height     int
}

// NewView creates an assets view for userID.
func NewView(s *styles.Styles, km *keymap.KeyMap, assets driving.AssetService, userID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewAssetList(s),
		statusbar: status.NewBar(s, km, km.AssetsHelp()...),
		assets:    assets,
		userID:    userID,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the asset list.
func (v *View) Init() tea.Cmd {
	v.confirming = ""
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateLoading)
	return v.load()
}

// Update handles messages for the assets view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AssetsLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.list.SetAssets(msg.Assets)
		v.statusbar.Clear()
		v.statusbar.SetLabel(fmt.Sprintf("%d files", len(msg.Assets)))
		return v, nil

	case messages.AssetDeleted:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.list.Remove(msg.ID)
		v.statusbar.Clear()
		v.statusbar.SetLabel(fmt.Sprintf("%d files", len(v.list.Assets())))
		v.statusbar.SetMessage(fmt.Sprintf("Deleted (%d chunks removed)", msg.Chunks))
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	if !keymap.Matches(k, v.keymap.Delete) && v.confirming != "" {
		v.confirming = ""
		v.statusbar.Clear()
	}

	switch {
	case keymap.Matches(k, v.keymap.Back), keymap.Matches(k, v.keymap.Assets):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}

	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.Init()

	case keymap.Matches(k, v.keymap.Delete):
		selected := v.list.SelectedAsset()
		if selected == nil {
			return v, nil
		}
		if v.confirming != selected.ID {
			v.confirming = selected.ID
			v.statusbar.SetMessage(fmt.Sprintf("Press d again to delete %s", selected.Filename))
			return v, nil
		}
		v.confirming = ""
		return v, v.remove(selected.ID)
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) load() tea.Cmd {
	ctx, svc, userID := v.ctx, v.assets, v.userID
	return func() tea.Msg {
		assets, err := svc.List(ctx, userID)
		return messages.AssetsLoaded{Assets: assets, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	ctx, svc, userID := v.ctx, v.assets, v.userID
	return func() tea.Msg {
		chunks, err := svc.Delete(ctx, userID, id)
		return messages.AssetDeleted{ID: id, Chunks: chunks, Err: err}
	}
}

func (v *View) setError(err error) {
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the assets view.
func (v *View) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("sercha-rag"),
		v.list.View(),
		"",
		v.statusbar.View(),
	)
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-4)
	v.statusbar.SetWidth(width)
}

// List returns the asset list component.
func (v *View) List() *list.AssetList {
	return v.list
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Confirming returns the ID awaiting delete confirmation.
func (v *View) Confirming() string {
	return v.confirming
}
