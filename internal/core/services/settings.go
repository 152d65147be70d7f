package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLoaderRate        = "loader.requests_per_second"
	keyLoaderBurst       = "loader.burst"
	keyLoaderTimeout     = "loader.timeout"
	keyLoaderWaitTimeout = "loader.wait_timeout"
	keyLoaderUserAgent   = "loader.user_agent"
	keyLoaderToken       = "loader.token"
	keyStorageBackend    = "storage.backend"
	keyStorageDataDir    = "storage.data_dir"
	keyPaginationMax     = "pagination.max_pages"
)

// SettingsService manages vault settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings, filling unset keys with defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Loader: domain.LoaderSettings{
			RequestsPerSecond: s.getFloat(keyLoaderRate, defaults.Loader.RequestsPerSecond),
			Burst:             s.getInt(keyLoaderBurst, defaults.Loader.Burst),
			Timeout:           s.getDuration(keyLoaderTimeout, defaults.Loader.Timeout),
			WaitTimeout:       s.getDuration(keyLoaderWaitTimeout, defaults.Loader.WaitTimeout),
			UserAgent:         s.getString(keyLoaderUserAgent, defaults.Loader.UserAgent),
			Token:             s.configStore.GetString(keyLoaderToken),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		Pagination: domain.PaginationSettings{
			MaxPages: s.getInt(keyPaginationMax, defaults.Pagination.MaxPages),
		},
	}

	return settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyLoaderRate, settings.Loader.RequestsPerSecond},
		{keyLoaderBurst, settings.Loader.Burst},
		{keyLoaderTimeout, settings.Loader.Timeout.String()},
		{keyLoaderWaitTimeout, settings.Loader.WaitTimeout.String()},
		{keyLoaderUserAgent, settings.Loader.UserAgent},
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageDataDir, settings.Storage.DataDir},
		{keyPaginationMax, settings.Pagination.MaxPages},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Loader.Token != "" {
		if err := s.configStore.Set(keyLoaderToken, settings.Loader.Token); err != nil {
			return fmt.Errorf("save %s: %w", keyLoaderToken, err)
		}
	}

	return nil
}

// SetLoaderRate updates the fetch rate limit.
func (s *SettingsService) SetLoaderRate(requestsPerSecond float64, burst int) error {
	if requestsPerSecond <= 0 {
		return fmt.Errorf("invalid rate: %v", requestsPerSecond)
	}
	if burst <= 0 {
		return fmt.Errorf("invalid burst: %d", burst)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Loader.RequestsPerSecond = requestsPerSecond
	settings.Loader.Burst = burst
	return s.Save(settings)
}

// SetStorageBackend updates the snapshot backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Backend = backend
	return s.Save(settings)
}

// SetToken updates the bearer token used by the loader.
// An empty token clears it.
func (s *SettingsService) SetToken(token string) error {
	if err := s.configStore.Set(keyLoaderToken, token); err != nil {
		return fmt.Errorf("save %s: %w", keyLoaderToken, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Location returns the config store path.
func (s *SettingsService) Location() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
