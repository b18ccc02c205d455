// Package repository defines the persistence interfaces for loopwright.
//
// Documents are edited in memory. The repository keeps serialized snapshots
// of them so a caller can restore the last good state after a failed loop
// build or branch replacement; the core itself has no rollback.
//
// # SQLite Implementation
//
// The sqlite subpackage stores snapshots in a single table keyed by a random
// ID. Each snapshot carries a BLAKE2b digest of its data, and saving a
// document identical to an existing snapshot returns that snapshot instead of
// writing a duplicate.
//
// # Schema Migration
//
// The sqlite repository creates its tables on startup and records the schema
// version in a metadata table.
package repository
