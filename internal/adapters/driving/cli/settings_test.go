package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty token", input: "", expected: "****"},
		{name: "Short token", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long token", input: "ghp_1234567890abcdef", expected: "ghp_...cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskToken(tt.input))
		})
	}
}

func TestSettingsShow(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Config: :memory:")
	assert.Contains(t, out, "[Loader]")
	assert.Contains(t, out, "Rate: 5 requests/s (burst 10)")
	assert.Contains(t, out, "Token: (not set)")
	assert.Contains(t, out, "Max pages: 100")
}

func TestSettingsRate(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "rate", "2.5", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "2.5 requests/s (burst 4)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 2.5, settings.Loader.RequestsPerSecond)
	assert.Equal(t, 4, settings.Loader.Burst)

	_, err = execute(t, "settings", "rate", "fast", "4")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "settings", "rate", "0", "4")
	assert.Error(t, err)
}

func TestSettingsStorage(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "storage", "Archive")
	require.NoError(t, err)

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageArchive, settings.Storage.Backend)

	_, err = execute(t, "settings", "storage", "floppy")
	assert.Error(t, err)
}

func TestSettings_NotConfigured(t *testing.T) {
	setupTestServices(t)
	settingsService = nil

	_, err := execute(t, "settings", "show")
	assert.EqualError(t, err, "settings service not configured")
}
