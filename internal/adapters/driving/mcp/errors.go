// Package mcp provides an MCP (Model Context Protocol) server adapter for the vault.
// It lets AI assistants load IIIF resources and walk the normalised store.
package mcp

import "errors"

// ErrMissingVault is returned when the vault is not provided.
var ErrMissingVault = errors.New("mcp: vault is required")
