// Package tui provides the interactive entity browser of the vault.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser needs.
type Ports struct {
	// Vault is the store being browsed.
	Vault driving.Vault
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Vault == nil {
		return ErrMissingVault
	}
	return nil
}
