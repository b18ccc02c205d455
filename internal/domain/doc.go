// Package domain defines the core value types used to synthesize fluid loop
// topologies inside a schema-typed engineering model document.
//
// # Node Identity
//
// NodeID is the value held by a "node" field. Connectivity is value equality:
// two fields are connected exactly when they hold the same NodeID. A Rename
// stages a change of identifier inside a field; RenameTable collects staged
// renames so they can be applied document-wide in one pass.
//
// # Loop Variants
//
// Variant names a loop kind (plant, condenser, air). LoopSpec is the
// per-variant configuration record: the canonical loop field names, which of
// them bind side inlets, outlets, branch lists and connector lists, and
// whether the demand side is built from pipes.
//
// # Topology
//
// Topology is the [inlet, [parallel branches...], outlet] description of one
// loop side.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
