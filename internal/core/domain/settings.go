package domain

import "time"

const unknownDescription = "Unknown"

// StorageBackend selects where snapshots are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps snapshots for the lifetime of the process only.
	StorageMemory StorageBackend = "memory"

	// StorageSQLite keeps snapshots in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageArchive keeps snapshots as xz-compressed JSON files.
	StorageArchive StorageBackend = "archive"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite, StorageArchive:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageMemory:
		return "Memory (process lifetime)"
	case StorageSQLite:
		return "SQLite (~/.vault/data/vault.db)"
	case StorageArchive:
		return "Archive (xz-compressed JSON files)"
	default:
		return unknownDescription
	}
}

// LoaderSettings holds fetch configuration.
type LoaderSettings struct {
	// RequestsPerSecond is the sustained fetch rate.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// WaitTimeout bounds how long a load waits on an identical in-flight request
	// before issuing its own fetch.
	WaitTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Token is an optional bearer token for protected resources.
	Token string
}

// StorageSettings holds snapshot persistence configuration.
type StorageSettings struct {
	// Backend is the snapshot store implementation.
	Backend StorageBackend

	// DataDir is where the backend keeps its files. Empty uses ~/.vault/data.
	DataDir string
}

// PaginationSettings holds paged-collection behaviour.
type PaginationSettings struct {
	// MaxPages caps how many pages LoadAllPages fetches. Zero means no cap.
	MaxPages int
}

// Settings holds all vault settings.
type Settings struct {
	// Loader holds fetch settings.
	Loader LoaderSettings

	// Storage holds snapshot persistence settings.
	Storage StorageSettings

	// Pagination holds paging settings.
	Pagination PaginationSettings
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Loader: LoaderSettings{
			RequestsPerSecond: 5.0,
			Burst:             10,
			Timeout:           30 * time.Second,
			WaitTimeout:       30 * time.Second,
			UserAgent:         "iiif-vault",
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Pagination: PaginationSettings{
			MaxPages: 100,
		},
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.Loader.RequestsPerSecond <= 0 || s.Loader.Burst <= 0 {
		return ErrInvalidInput
	}
	if s.Loader.Timeout < 0 || s.Loader.WaitTimeout < 0 {
		return ErrInvalidInput
	}
	if !s.Storage.Backend.IsValid() {
		return ErrInvalidInput
	}
	if s.Pagination.MaxPages < 0 {
		return ErrInvalidInput
	}
	return nil
}
