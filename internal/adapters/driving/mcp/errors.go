// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants ask questions about, list and delete the user's
// uploaded assets.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")

// ErrMissingUser is returned when no user ID is configured.
var ErrMissingUser = errors.New("mcp: user id is required")
