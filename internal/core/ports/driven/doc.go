// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Normaliser: Turns a fetched body into entity-import actions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the vault degrades gracefully:
//
//   - Fetcher: Fetches documents by URI. Without it only LoadSync is available.
//   - SnapshotStore: Persists vault state between runs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
