package tui

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")

// ErrMissingAssetService is returned when the asset service is not provided.
var ErrMissingAssetService = errors.New("tui: asset service is required")

// ErrMissingUser is returned when no user is configured.
var ErrMissingUser = errors.New("tui: user is required")
