// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// AssetList displays uploaded files in a navigable list.
type AssetList struct {
	assets   []domain.Asset
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewAssetList creates an empty asset list.
func NewAssetList(s *styles.Styles) *AssetList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &AssetList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the asset list.
func (l *AssetList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (l *AssetList) Update(msg tea.Msg) (*AssetList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of assets around the selection.
func (l *AssetList) View() string {
	if len(l.assets) == 0 {
		return l.styles.Muted.Render("No files uploaded yet")
	}

	lines := make([]string, 0, len(l.assets)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Files (%d)", len(l.assets))), "")

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.assets) {
		end = len(l.assets)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderAsset(i, &l.assets[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *AssetList) renderAsset(index int, a *domain.Asset) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	meta := fmt.Sprintf("%-5s %8s  %s", a.Kind, FormatSize(a.Size), a.CreatedAt.Format("2006-01-02 15:04"))

	nameWidth := l.width - len(meta) - 6
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := a.Filename
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, nameWidth, name, meta))
	}
	return l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, nameWidth, name)) +
		l.styles.Muted.Render(meta)
}

// SetAssets replaces the list contents, keeping the selection in range.
func (l *AssetList) SetAssets(assets []domain.Asset) {
	l.assets = assets
	if l.selected >= len(assets) {
		l.selected = len(assets) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Assets returns the current assets.
func (l *AssetList) Assets() []domain.Asset {
	return l.assets
}

// Selected returns the index of the selected asset.
func (l *AssetList) Selected() int {
	return l.selected
}

// SelectedAsset returns the currently selected asset, or nil if none.
func (l *AssetList) SelectedAsset() *domain.Asset {
	if len(l.assets) == 0 {
		return nil
	}
	return &l.assets[l.selected]
}

// Remove drops the asset with the given ID.
func (l *AssetList) Remove(id string) {
	for i := range l.assets {
		if l.assets[i].ID == id {
			l.SetAssets(append(l.assets[:i:i], l.assets[i+1:]...))
			return
		}
	}
}

// MoveUp moves selection up.
func (l *AssetList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *AssetList) MoveDown() {
	if l.selected < len(l.assets)-1 {
		l.selected++
	}
}

// SetDimensions sets the list size.
func (l *AssetList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// FormatSize renders a byte count for display.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
