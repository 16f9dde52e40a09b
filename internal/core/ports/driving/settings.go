package driving

import "github.com/custodia-labs/kbrag/internal/core/domain"

// SettingsService resolves application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults applied and
	// secrets from the environment overriding the config file.
	Get() (*domain.AppSettings, error)

	// Set parses and persists a single configuration key.
	// Returns an error wrapping domain.ErrInvalidInput for unknown keys or
	// values of the wrong type.
	Set(key, value string) error

	// Keys returns every configurable key, sorted.
	Keys() []string

	// ValidateIngest checks the settings needed by the ingestion pipeline.
	ValidateIngest(settings *domain.AppSettings) error

	// ValidateQuery checks the settings needed by the query pipeline.
	ValidateQuery(settings *domain.AppSettings) error
}
