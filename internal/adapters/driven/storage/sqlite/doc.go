// Package sqlite provides a SQLite-backed implementation of driven.SnapshotStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.vault/data/vault.db
//
// # Change Detection
//
// Each saved state is hashed with BLAKE3. Saving an identical state under the
// same name leaves the row untouched.
package sqlite
