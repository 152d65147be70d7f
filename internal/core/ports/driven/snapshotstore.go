package driven

import (
	"context"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

// SnapshotStore persists named vault snapshots.
type SnapshotStore interface {
	// Save stores or replaces a snapshot.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Load retrieves a snapshot by name.
	// Returns domain.ErrNotFound if it does not exist.
	Load(ctx context.Context, name string) (*domain.Snapshot, error)

	// List describes every stored snapshot.
	List(ctx context.Context) ([]domain.SnapshotInfo, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, name string) error
}
