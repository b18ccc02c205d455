package domain

import (
	"fmt"
	"sort"
)

// Rename is a staged change of a node identifier. It lives in a field until
// the next propagation collapses it to New.
type Rename struct {
	Old NodeID `json:"old"`
	New NodeID `json:"new"`
}

// IsIdentity reports whether the rename leaves the identifier unchanged
func (r Rename) IsIdentity() bool {
	return r.Old == r.New
}

// RenamePolicy decides what happens when two staged renames share an old identifier
type RenamePolicy string

const (
	// RenameReject fails the propagation when the same old identifier maps to different new ones
	RenameReject RenamePolicy = "reject"
	// RenameLastWins keeps the mapping staged last in document scan order
	RenameLastWins RenamePolicy = "last_wins"
)

// Valid reports whether the policy is known
func (p RenamePolicy) Valid() bool {
	return p == RenameReject || p == RenameLastWins
}

// RenameConflictError reports one old identifier staged with different new identifiers
type RenameConflictError struct {
	Old      NodeID
	Existing NodeID
	Incoming NodeID
}

func (e *RenameConflictError) Error() string {
	return fmt.Sprintf("conflicting renames for node %q: %q and %q", e.Old, e.Existing, e.Incoming)
}

// RenameTable maps old node identifiers to their replacements
type RenameTable struct {
	policy  RenamePolicy
	entries map[NodeID]NodeID
}

// NewRenameTable creates an empty table. An unknown policy falls back to RenameReject.
func NewRenameTable(policy RenamePolicy) *RenameTable {
	if !policy.Valid() {
		policy = RenameReject
	}
	return &RenameTable{
		policy:  policy,
		entries: make(map[NodeID]NodeID),
	}
}

// Add records a rename. Renames with a blank old identifier are not recorded:
// mapping "" would connect every unset node field in the document.
func (t *RenameTable) Add(r Rename) error {
	if r.Old.IsBlank() {
		return nil
	}
	if existing, ok := t.entries[r.Old]; ok && existing != r.New {
		if t.policy == RenameReject {
			return &RenameConflictError{Old: r.Old, Existing: existing, Incoming: r.New}
		}
	}
	t.entries[r.Old] = r.New
	return nil
}

// Lookup returns the replacement for id, if one is staged
func (t *RenameTable) Lookup(id NodeID) (NodeID, bool) {
	next, ok := t.entries[id]
	return next, ok
}

// Len returns the number of staged old identifiers
func (t *RenameTable) Len() int {
	return len(t.entries)
}

// Renames returns the table contents sorted by old identifier
func (t *RenameTable) Renames() []Rename {
	out := make([]Rename, 0, len(t.entries))
	for old, next := range t.entries {
		out = append(out, Rename{Old: old, New: next})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Old < out[j].Old })
	return out
}
