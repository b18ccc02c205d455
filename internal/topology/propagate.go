package topology

import (
	"errors"
	"fmt"

	"loopwright/internal/domain"
	"loopwright/internal/schema"
	"loopwright/internal/store"
)

// PropagateRenames applies every staged rename in the document. The first
// pass collects staged (old, new) pairs into one table; the second collapses
// each pending field to its new identifier and rewrites every node field
// whose plain value is a staged old identifier. It returns the number of
// fields rewritten.
//
// With RenameReject, an old identifier staged with two different new ones is
// only a conflict when some plain node field still holds it: pending holders
// each collapse to their own new identifier, which is what splicing a
// component into a chain stages. On conflict the document is left untouched.
func PropagateRenames(doc Records, policy domain.RenamePolicy) (int, error) {
	table := domain.NewRenameTable(policy)
	contested := make(map[domain.NodeID]error)
	pending := 0
	for _, typeName := range doc.Types() {
		for _, obj := range doc.ObjectsOfType(typeName) {
			for _, v := range obj.Values() {
				r, ok := v.Rename()
				if !ok {
					continue
				}
				pending++
				err := table.Add(r)
				var conflict *domain.RenameConflictError
				if errors.As(err, &conflict) {
					if _, seen := contested[r.Old]; !seen {
						contested[r.Old] = fmt.Errorf("propagate renames: %s: %w", obj, err)
					}
				} else if err != nil {
					return 0, fmt.Errorf("propagate renames: %s: %w", obj, err)
				}
			}
		}
	}
	if pending == 0 {
		return 0, nil
	}
	if err := contestedHolder(doc, contested); err != nil {
		return 0, err
	}

	changed := 0
	for _, typeName := range doc.Types() {
		for _, obj := range doc.ObjectsOfType(typeName) {
			changed += obj.Walk(func(f schema.FieldDef, v store.Value) (store.Value, bool) {
				if v.IsPending() {
					return v.Collapse(), true
				}
				if !f.IsNode() || v.IsBlank() {
					return v, false
				}
				if next, ok := table.Lookup(v.Node()); ok && next != v.Node() {
					return store.Plain(next.String()), true
				}
				return v, false
			})
		}
	}
	return changed, nil
}

// contestedHolder returns the conflict of the first plain node field holding a contested identifier
func contestedHolder(doc Records, contested map[domain.NodeID]error) error {
	if len(contested) == 0 {
		return nil
	}
	for _, typeName := range doc.Types() {
		for _, obj := range doc.ObjectsOfType(typeName) {
			var found error
			obj.Walk(func(f schema.FieldDef, v store.Value) (store.Value, bool) {
				if found == nil && f.IsNode() && !v.IsPending() && !v.IsBlank() {
					found = contested[v.Node()]
				}
				return v, false
			})
			if found != nil {
				return found
			}
		}
	}
	return nil
}

// revertPending turns every staged rename in the document back into its old identifier
func revertPending(doc Records) int {
	reverted := 0
	for _, typeName := range doc.Types() {
		for _, obj := range doc.ObjectsOfType(typeName) {
			reverted += obj.Walk(func(_ schema.FieldDef, v store.Value) (store.Value, bool) {
				if r, ok := v.Rename(); ok {
					return store.Plain(r.Old.String()), true
				}
				return v, false
			})
		}
	}
	return reverted
}
