// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// AnswerReceived carries the reply to a question back to the model.
type AnswerReceived struct {
	Question string
	Reply    *driving.ChatReply
	Err      error
}

// HistoryLoaded carries past exchanges, newest first.
type HistoryLoaded struct {
	Entries []domain.ChatEntry
	Err     error
}

// AssetsLoaded carries the user's assets.
type AssetsLoaded struct {
	Assets []domain.Asset
	Err    error
}

// AssetDeleted signals an asset was removed.
type AssetDeleted struct {
	ID     string
	Chunks int
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer transcript.
	ViewChat ViewType = iota
	// ViewAssets lists uploaded files.
	ViewAssets
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewAssets:
		return "assets"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
