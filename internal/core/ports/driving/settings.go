package driving

import "github.com/journai/journai-core/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves current settings from config, environment and defaults.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single config key.
	Set(key, value string) error

	// Show returns every effective key with its value, secrets masked.
	Show() (map[string]string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured chat provider.
	ValidateLLMConfig() error
}
