package driving

import (
	"context"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

// SnapshotService persists and restores vault snapshots.
type SnapshotService interface {
	// Save captures the vault state and stores it under name.
	Save(ctx context.Context, name string) (*domain.Snapshot, error)

	// Restore loads the named snapshot into the vault.
	Restore(ctx context.Context, name string) (*domain.Snapshot, error)

	// List describes stored snapshots.
	List(ctx context.Context) ([]domain.SnapshotInfo, error)

	// Delete removes a stored snapshot.
	Delete(ctx context.Context, name string) error
}
