package services

import (
	"sync"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

var (
	defaultMu    sync.Mutex
	defaultVault *Vault
)

// InitDefault creates the process-wide vault. It is created once and lives
// for the rest of the process; later calls return the existing instance
// and ignore opts.
func InitDefault(opts Options) *Vault {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultVault == nil {
		defaultVault = NewVault(opts)
	}
	return defaultVault
}

// Default returns the process-wide vault created by InitDefault.
func Default() (*Vault, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultVault == nil {
		return nil, domain.ErrDefaultNotInitialised
	}
	return defaultVault, nil
}
