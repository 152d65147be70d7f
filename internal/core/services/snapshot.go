package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/logger"
)

// Ensure SnapshotService implements the interface.
var _ driving.SnapshotService = (*SnapshotService)(nil)

// SnapshotService saves and restores vault state through a snapshot store.
type SnapshotService struct {
	vault driving.Vault
	store driven.SnapshotStore
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(vault driving.Vault, store driven.SnapshotStore) *SnapshotService {
	return &SnapshotService{vault: vault, store: store}
}

// Save captures the vault state and stores it under name.
func (s *SnapshotService) Save(ctx context.Context, name string) (*domain.Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: snapshot name is required", domain.ErrInvalidInput)
	}

	snapshot := s.vault.Snapshot(name)
	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot %s: %w", name, err)
	}

	logger.Debug("snapshot: saved %s (%d entities)", name, snapshot.State.Count())
	return snapshot, nil
}

// Restore loads the named snapshot into the vault.
func (s *SnapshotService) Restore(ctx context.Context, name string) (*domain.Snapshot, error) {
	snapshot, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}

	s.vault.Restore(snapshot)
	logger.Debug("snapshot: restored %s (%d entities)", name, snapshot.State.Count())
	return snapshot, nil
}

// List describes stored snapshots.
func (s *SnapshotService) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	return s.store.List(ctx)
}

// Delete removes a stored snapshot.
func (s *SnapshotService) Delete(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}
