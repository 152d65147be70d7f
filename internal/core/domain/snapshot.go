package domain

import "time"

// Snapshot is a named, serialisable copy of a vault state.
type Snapshot struct {
	// Name identifies the snapshot within its store.
	Name string `json:"name"`

	// State is the captured store.
	State *State `json:"state"`

	// Hash is the content hash of the encoded state, set by stores that compute one.
	Hash string `json:"hash,omitempty"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"createdAt"`
}

// SnapshotInfo describes a stored snapshot without its state.
type SnapshotInfo struct {
	Name      string
	Hash      string
	Entities  int
	CreatedAt time.Time
}
