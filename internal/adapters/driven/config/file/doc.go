// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML configuration storage, with a YAML fallback
//   - PromptStore: user-editable model prompts with embedded defaults
package file
