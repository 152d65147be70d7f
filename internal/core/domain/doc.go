// Package domain defines the core types of the vault.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entity: A normalised resource of the presentation graph
//   - Reference: A minimal {id, type} pointer to an entity
//   - State: The full store (entities, mapping, requests, meta)
//   - Action: A state transition folded in by the reducers
//   - PaginationState: Per-resource paging progress kept in meta
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
