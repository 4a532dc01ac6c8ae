// Package storage persists conversion history.
//
// Drivers:
//   - "file":   JSON Lines, append-only, dependency-free
//   - "sqlite": SQLite database (modernc.org/sqlite, pure Go)
//   - "bolt":   bbolt key/value file keyed by ULID
package storage
