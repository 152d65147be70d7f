package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
// Vault states are immutable, so snapshots share them without copying.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

// Save stores or replaces a snapshot.
func (s *SnapshotStore) Save(_ context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.Name == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.Name] = *snapshot
	return nil
}

// Load retrieves a snapshot by name.
func (s *SnapshotStore) Load(_ context.Context, name string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &snapshot, nil
}

// List describes every stored snapshot, ordered by name.
func (s *SnapshotStore) List(_ context.Context) ([]domain.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]domain.SnapshotInfo, 0, len(s.snapshots))
	for _, snapshot := range s.snapshots {
		infos = append(infos, domain.SnapshotInfo{
			Name:      snapshot.Name,
			Hash:      snapshot.Hash,
			Entities:  snapshot.State.Count(),
			CreatedAt: snapshot.CreatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a snapshot. Deleting a missing snapshot is not an error.
func (s *SnapshotStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, name)
	return nil
}
