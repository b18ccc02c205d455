// Package topology synthesizes and edits plant, condenser and air loops in a
// record document.
//
// # Connectivity
//
// Two node fields are connected when they hold the same string. Nothing is
// renamed in place: operations stage a rename in the field that changes and
// PropagateRenames applies every staged rename across the document at once,
// so all fields sharing the old identifier follow. An identifier staged to
// two different new values is split between its staged holders, and is a
// conflict only while a plain field still holds it.
//
// # Operations
//
// ResolvePort picks the inlet or outlet field of a component, narrowed by a
// port hint and a fluid. Chain stages shared nodes between adjacent
// components, and WriteBranch records them as the entries of a branch.
//
// Engine.BuildLoop runs the construction stages of a loop in order:
//
//	created -> branch lists -> supply branches -> demand branches ->
//	endpoints -> supply connectors -> demand connectors -> splitters/mixers
//
// The demand side, endpoint binding and splitter steps differ per variant and
// are dispatched on the loop variant. Engine.ReplaceBranch swaps the
// components of a branch and rebinds the loop boundary when the branch is the
// first or last branch of a side.
//
// An Engine owns its document for the duration of a call. A failed build
// leaves the document partially built; callers snapshot first when they need
// to roll back. A failed replace restores the branch and its components.
package topology
