package driving

import "github.com/custodia-labs/sercha-rag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults and
	// environment values applied.
	Get() (*domain.AppSettings, error)

	// Set updates a single dotted key (e.g. "chunking.size") and persists it.
	Set(key, value string) error

	// Keys returns every recognised settings key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
