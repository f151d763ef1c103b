// Package tui provides an interactive terminal chat over the user's files.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Chat answers questions and records history.
	Chat driving.ChatService

	// Assets lists and deletes uploaded files.
	Assets driving.AssetService

	// UserID is the user the session acts for.
	UserID string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Assets == nil {
		return ErrMissingAssetService
	}
	if p.UserID == "" {
		return ErrMissingUser
	}
	return nil
}
