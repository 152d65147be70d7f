package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/fetcher"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/fetcher/httpfetch"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/fetcher/local"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/storage/archive"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/cli"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/services"
	"github.com/custodia-labs/iiif-vault/internal/logger"
	"github.com/custodia-labs/iiif-vault/internal/normalisers/presentation"
)

// build wires the services for configDir. The vault is the process-wide
// default instance.
func build(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	remote := httpfetch.New(httpfetch.Config{
		RequestsPerSecond: settings.Loader.RequestsPerSecond,
		Burst:             settings.Loader.Burst,
		Timeout:           settings.Loader.Timeout,
		UserAgent:         settings.Loader.UserAgent,
		Token:             settings.Loader.Token,
	})
	vault := services.InitDefault(services.Options{
		Fetcher:     fetcher.NewRouter(local.New(""), remote),
		Normaliser:  presentation.New(),
		WaitTimeout: settings.Loader.WaitTimeout,
	})

	store, closeStore, err := snapshotStore(settings.Storage)
	if err != nil {
		return nil, err
	}
	logger.Debug("wiring: snapshots in %s", settings.Storage.Backend.Description())

	return &cli.Services{
		Vault:    vault,
		Snapshot: services.NewSnapshotService(vault, store),
		Settings: settingsService,
		Close:    closeStore,
	}, nil
}

// snapshotStore opens the configured snapshot backend.
func snapshotStore(cfg domain.StorageSettings) (driven.SnapshotStore, func() error, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		return memory.NewSnapshotStore(), nil, nil
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening snapshot database: %w", err)
		}
		return store, store.Close, nil
	case domain.StorageArchive:
		dir := cfg.DataDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("getting home directory: %w", err)
			}
			dir = filepath.Join(home, ".vault", "snapshots")
		}
		store, err := archive.NewStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
