// Package service implements the application layer of loopwright.
//
// LoopService owns the object schema and hands the topology engine one
// document at a time. It adds what the engine leaves to its caller:
// default settings from the config file, snapshots in the repository so a
// failed build can be rolled back, and hot reload of extra object
// definitions.
//
// # Documents
//
// Documents are not shared between calls made concurrently. The service
// guards only its own state (the schema); a document passed to BuildLoop or
// ReplaceBranch must not be touched by anything else until the call returns.
//
// # Event System
//
// The service publishes events via EventBus: loops built, branches
// replaced, snapshots saved and restored, and schema reloads. Slow
// subscribers miss events rather than block the publisher.
package service
