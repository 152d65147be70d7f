package driven

import "time"

// ConfigStore provides access to vault configuration.
// Keys are dotted paths such as "loader.timeout". Typed getters return the
// zero value when a key is missing or holds another type.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int

	// GetFloat widens integers.
	GetFloat(key string) float64

	// GetDuration parses Go duration strings such as "30s".
	GetDuration(key string) time.Duration

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Path returns where the configuration lives.
	Path() string
}
