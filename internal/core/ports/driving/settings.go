package driving

import "github.com/custodia-labs/axrepo/internal/core/domain"

// SettingsService manages connection settings.
type SettingsService interface {
	// Get retrieves the current connection settings.
	Get() (*domain.ConnectionSettings, error)

	// Save persists connection settings.
	Save(settings *domain.ConnectionSettings) error

	// Set updates a single setting by its config key.
	Set(key, value string) error

	// Unset removes a setting so its default applies again.
	Unset(key string) error

	// Path returns where settings are persisted.
	Path() string

	// Validate checks the current settings.
	Validate() error

	// Keys lists the config keys accepted by Set.
	Keys() []string
}
