// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestionService turns an asset into stored chunks, QueryService answers
// questions from them, AssetService and ChatService sit in front of those
// two for the CLI, MCP and TUI adapters.
//
// Services are pure Go with no CGO or external dependencies.
package services
