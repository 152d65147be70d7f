package mcp

import (
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Vault is the entity store.
	Vault driving.Vault

	// Snapshot persists vault state. Optional.
	Snapshot driving.SnapshotService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Vault == nil {
		return ErrMissingVault
	}
	return nil
}
