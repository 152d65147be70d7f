package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
	assert.Equal(t, ":memory:", service.Location())
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, domain.DefaultSettings(), *settings)
	assert.Equal(t, domain.DefaultSettings(), service.GetDefaults())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("loader.requests_per_second", 2.5)
	_ = store.Set("loader.burst", 3)
	_ = store.Set("loader.timeout", "10s")
	_ = store.Set("loader.wait_timeout", "1m")
	_ = store.Set("loader.user_agent", "tester")
	_ = store.Set("loader.token", "secret")
	_ = store.Set("storage.backend", "archive")
	_ = store.Set("storage.data_dir", "/tmp/vault")
	_ = store.Set("pagination.max_pages", 7)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.InDelta(t, 2.5, settings.Loader.RequestsPerSecond, 0.0001)
	assert.Equal(t, 3, settings.Loader.Burst)
	assert.Equal(t, 10*time.Second, settings.Loader.Timeout)
	assert.Equal(t, time.Minute, settings.Loader.WaitTimeout)
	assert.Equal(t, "tester", settings.Loader.UserAgent)
	assert.Equal(t, "secret", settings.Loader.Token)
	assert.Equal(t, domain.StorageArchive, settings.Storage.Backend)
	assert.Equal(t, "/tmp/vault", settings.Storage.DataDir)
	assert.Equal(t, 7, settings.Pagination.MaxPages)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("storage.backend", "floppy")
	_ = store.Set("loader.timeout", "eventually")

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.Loader.Timeout, settings.Loader.Timeout)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultSettings()
	settings.Loader.Timeout = 5 * time.Second
	settings.Storage.Backend = domain.StorageMemory

	require.NoError(t, service.Save(&settings))
	assert.Equal(t, "5s", store.GetString("loader.timeout"))
	assert.Equal(t, "memory", store.GetString("storage.backend"))
	_, hasToken := store.Get("loader.token")
	assert.False(t, hasToken, "empty token is not written")

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	settings := domain.DefaultSettings()
	settings.Loader.Burst = -1

	err := service.Save(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetLoaderRate(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.SetLoaderRate(1.5, 4))
	settings, _ := service.Get()
	assert.InDelta(t, 1.5, settings.Loader.RequestsPerSecond, 0.0001)
	assert.Equal(t, 4, settings.Loader.Burst)

	assert.Error(t, service.SetLoaderRate(0, 4))
	assert.Error(t, service.SetLoaderRate(1, 0))
}

func TestSettingsService_SetStorageBackend(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.SetStorageBackend(domain.StorageArchive))
	settings, _ := service.Get()
	assert.Equal(t, domain.StorageArchive, settings.Storage.Backend)

	assert.Error(t, service.SetStorageBackend("tape"))
}

func TestSettingsService_SetToken(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetToken("abc"))
	settings, _ := service.Get()
	assert.Equal(t, "abc", settings.Loader.Token)

	require.NoError(t, service.SetToken(""))
	settings, _ = service.Get()
	assert.Empty(t, settings.Loader.Token)
}
