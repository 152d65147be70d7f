package driving

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// SettingsService manages vault configuration.
type SettingsService interface {
	// Get returns the current settings.
	Get() (*domain.Settings, error)

	// Save persists settings after validating them.
	Save(settings *domain.Settings) error

	// SetLoaderRate updates the fetch rate limit.
	SetLoaderRate(requestsPerSecond float64, burst int) error

	// SetStorageBackend updates the snapshot backend.
	SetStorageBackend(backend domain.StorageBackend) error

	// SetToken updates the bearer token used by the loader.
	SetToken(token string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Location describes where settings are stored.
	Location() string
}
