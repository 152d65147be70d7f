package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// Ensure Vault implements the interface.
var _ driving.Vault = (*Vault)(nil)

// DefaultWaitTimeout bounds how long a load waits on an identical in-flight
// request before issuing its own fetch.
const DefaultWaitTimeout = 30 * time.Second

// Options configures a Vault.
type Options struct {
	// Fetcher retrieves documents for Load. Optional: without it only LoadSync works.
	Fetcher driven.Fetcher

	// Normaliser turns fetched bodies into entities. Required for loading.
	Normaliser driven.Normaliser

	// WaitTimeout overrides DefaultWaitTimeout.
	WaitTimeout time.Duration

	// State is an optional initial state.
	State *domain.State
}

// Vault is the normalised entity store.
//
// Dispatches are serialised: one action (or batch) is folded at a time and
// observers run synchronously on the dispatching goroutine. Readers see the
// last committed state without locking. Hooks and listeners must not
// dispatch; use Batch to group related actions instead.
type Vault struct {
	state atomic.Pointer[domain.State]

	// mu serialises dispatches.
	mu sync.Mutex

	observersMu sync.RWMutex
	hooks       []hookEntry
	listeners   []listenerEntry
	nextID      uint64

	fetcher     driven.Fetcher
	normaliser  driven.Normaliser
	waitTimeout time.Duration
}

// NewVault creates a vault.
func NewVault(opts Options) *Vault {
	v := &Vault{
		fetcher:     opts.Fetcher,
		normaliser:  opts.Normaliser,
		waitTimeout: opts.WaitTimeout,
	}
	if v.waitTimeout <= 0 {
		v.waitTimeout = DefaultWaitTimeout
	}

	initial := opts.State
	if initial == nil {
		initial = domain.NewState()
	}
	v.state.Store(initial)
	return v
}

// State returns the committed state. The returned state must not be modified.
func (v *Vault) State() *domain.State {
	return v.state.Load()
}

// Snapshot captures the committed state under name.
func (v *Vault) Snapshot(name string) *domain.Snapshot {
	return &domain.Snapshot{
		Name:      name,
		State:     v.State(),
		CreatedAt: time.Now().UTC(),
	}
}

// Restore replaces the state with a snapshot.
func (v *Vault) Restore(snapshot *domain.Snapshot) {
	if snapshot == nil || snapshot.State == nil {
		return
	}
	v.Dispatch(domain.HydrateState{State: snapshot.State})
}
