package store

import "loopwright/internal/domain"

// Value is a field value: either plain text or a staged rename waiting for
// propagation. A pending value is not a valid plain identifier.
type Value struct {
	text    string
	pending *domain.Rename
}

// Plain wraps a plain string value
func Plain(s string) Value {
	return Value{text: s}
}

// Pending wraps a staged rename
func Pending(r domain.Rename) Value {
	return Value{pending: &r}
}

// IsPending reports whether the value holds a staged rename
func (v Value) IsPending() bool {
	return v.pending != nil
}

// Rename returns the staged rename, if any
func (v Value) Rename() (domain.Rename, bool) {
	if v.pending == nil {
		return domain.Rename{}, false
	}
	return *v.pending, true
}

// Text returns the plain value. A pending value reports the identifier it
// will take once renames are propagated.
func (v Value) Text() string {
	if v.pending != nil {
		return string(v.pending.New)
	}
	return v.text
}

// Node returns the value as a node identifier
func (v Value) Node() domain.NodeID {
	return domain.NodeID(v.Text())
}

// IsBlank reports whether the value is an empty plain string. Pending values are never blank.
func (v Value) IsBlank() bool {
	return v.pending == nil && domain.NodeID(v.text).IsBlank()
}

// Collapse returns the plain value a pending rename resolves to
func (v Value) Collapse() Value {
	if v.pending == nil {
		return v
	}
	return Plain(string(v.pending.New))
}
