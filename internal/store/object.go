package store

import (
	"fmt"
	"strings"

	"loopwright/internal/domain"
	"loopwright/internal/schema"
)

// Object is an instance of a schema type: an ordered sequence of field values
// laid out as the definition's fixed fields followed by extensible groups.
type Object struct {
	def    *schema.ObjectDef
	values []Value
}

func newObject(def *schema.ObjectDef) *Object {
	return &Object{
		def:    def,
		values: make([]Value, len(def.Fields)),
	}
}

// Type returns the canonical type name
func (o *Object) Type() string {
	return o.def.Type
}

// Def returns the schema definition of the object
func (o *Object) Def() *schema.ObjectDef {
	return o.def
}

// Name returns the value of the first field, which identifies the object within its type
func (o *Object) Name() string {
	if len(o.values) == 0 {
		return ""
	}
	return o.values[0].Text()
}

// String identifies the object in logs and errors
func (o *Object) String() string {
	return fmt.Sprintf("%s %q", o.def.Type, o.Name())
}

// Len returns the number of stored field values
func (o *Object) Len() int {
	return len(o.values)
}

// ExtensibleLen returns the number of stored extensible field slots
func (o *Object) ExtensibleLen() int {
	n := len(o.values) - o.def.ExtensibleStart()
	if n < 0 {
		return 0
	}
	return n
}

// Get returns the value of a field. Fields the schema declares but that are
// not stored yet read as blank.
func (o *Object) Get(field string) (Value, error) {
	i, ok := o.def.IndexOf(field)
	if !ok {
		return Value{}, fmt.Errorf("%s: %s: %w", o, field, ErrFieldNotFound)
	}
	if i >= len(o.values) {
		return Value{}, nil
	}
	return o.values[i], nil
}

// GetString returns the text of a field
func (o *Object) GetString(field string) (string, error) {
	v, err := o.Get(field)
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

// Set stores a plain value
func (o *Object) Set(field, value string) error {
	return o.SetValue(field, Plain(value))
}

// SetValue stores a value, growing the field sequence up to the field's position
func (o *Object) SetValue(field string, v Value) error {
	i, ok := o.def.IndexOf(field)
	if !ok {
		return fmt.Errorf("%s: %s: %w", o, field, ErrFieldNotFound)
	}
	o.ensureLen(i + 1)
	o.values[i] = v
	return nil
}

// Stage replaces the identifier in a node field with a pending rename to next.
// Staging over a pending value keeps the original old identifier.
func (o *Object) Stage(field string, next domain.NodeID) error {
	i, ok := o.def.IndexOf(field)
	if !ok {
		return fmt.Errorf("%s: %s: %w", o, field, ErrFieldNotFound)
	}
	if f, _ := o.def.FieldAt(i); !f.IsNode() {
		return fmt.Errorf("%s: %s: %w", o, field, ErrNotNodeField)
	}
	o.ensureLen(i + 1)
	current := o.values[i]
	old := domain.NodeID(current.text)
	if r, ok := current.Rename(); ok {
		old = r.Old
	}
	o.values[i] = Pending(domain.Rename{Old: old, New: next})
	return nil
}

// FieldNamesBySuffix lists field names ending with suffix in declared order.
// Fixed fields are always listed; extensible fields only when stored.
func (o *Object) FieldNamesBySuffix(suffix string) []string {
	var names []string
	n := len(o.values)
	if n < len(o.def.Fields) {
		n = len(o.def.Fields)
	}
	for i := 0; i < n; i++ {
		f, ok := o.def.FieldAt(i)
		if !ok {
			break
		}
		if strings.HasSuffix(f.Name, suffix) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Walk visits every stored field in order. When fn returns true the field is
// replaced with the returned value.
func (o *Object) Walk(fn func(f schema.FieldDef, v Value) (Value, bool)) int {
	changed := 0
	for i, v := range o.values {
		f, ok := o.def.FieldAt(i)
		if !ok {
			continue
		}
		if next, replace := fn(f, v); replace {
			o.values[i] = next
			changed++
		}
	}
	return changed
}

// ClearExtensible truncates every extensible group. Fixed fields are kept.
func (o *Object) ClearExtensible() {
	start := o.def.ExtensibleStart()
	if len(o.values) > start {
		o.values = o.values[:start]
	}
}

// GrowExtensible makes room for n extensible groups after the fixed fields
func (o *Object) GrowExtensible(groups int) error {
	if o.def.GroupWidth() == 0 {
		return fmt.Errorf("%s: type has no extensible fields: %w", o, ErrFieldNotFound)
	}
	if o.def.MaxGroups > 0 && groups > o.def.MaxGroups {
		return fmt.Errorf("%s: %d groups, max %d: %w", o, groups, o.def.MaxGroups, ErrGroupLimit)
	}
	o.ensureLen(o.def.ExtensibleStart() + groups*o.def.GroupWidth())
	return nil
}

// GroupCount returns the number of stored extensible groups, blank ones included
func (o *Object) GroupCount() int {
	width := o.def.GroupWidth()
	if width == 0 {
		return 0
	}
	return (o.ExtensibleLen() + width - 1) / width
}

// SetGroup stores the values of extensible group g (0-based)
func (o *Object) SetGroup(g int, values ...Value) error {
	width := o.def.GroupWidth()
	if width == 0 {
		return fmt.Errorf("%s: type has no extensible fields: %w", o, ErrFieldNotFound)
	}
	if len(values) > width {
		return fmt.Errorf("%s: group takes %d values, got %d", o, width, len(values))
	}
	if err := o.GrowExtensible(g + 1); err != nil {
		return err
	}
	start := o.def.ExtensibleStart() + g*width
	for i := 0; i < width; i++ {
		if i < len(values) {
			o.values[start+i] = values[i]
		} else {
			o.values[start+i] = Value{}
		}
	}
	return nil
}

// AppendGroup stores plain values in the group following the last non-blank group
func (o *Object) AppendGroup(values ...string) error {
	vs := make([]Value, len(values))
	for i, s := range values {
		vs[i] = Plain(s)
	}
	return o.SetGroup(len(o.Groups()), vs...)
}

// Groups returns the extensible groups in order, without trailing blank groups
func (o *Object) Groups() []Group {
	width := o.def.GroupWidth()
	count := o.GroupCount()
	groups := make([]Group, 0, count)
	for g := 0; g < count; g++ {
		start := o.def.ExtensibleStart() + g*width
		group := Group{Index: g, Values: make([]Value, width)}
		for i := 0; i < width && start+i < len(o.values); i++ {
			group.Values[i] = o.values[start+i]
		}
		groups = append(groups, group)
	}
	for len(groups) > 0 && groups[len(groups)-1].IsBlank() {
		groups = groups[:len(groups)-1]
	}
	return groups
}

// Values returns a copy of the stored values
func (o *Object) Values() []Value {
	return append([]Value(nil), o.values...)
}

// Reset replaces every stored value, as when undoing an edit with a copy taken by Values
func (o *Object) Reset(values []Value) {
	o.values = append(o.values[:0:0], values...)
}

func (o *Object) clone() *Object {
	return &Object{def: o.def, values: o.Values()}
}

func (o *Object) ensureLen(n int) {
	for len(o.values) < n {
		o.values = append(o.values, Value{})
	}
}

// Group is one extensible group of an object, such as a connector slot
// (type, name) or a branch component entry.
type Group struct {
	Index  int
	Values []Value
}

// Text returns the text of the i-th value in the group
func (g Group) Text(i int) string {
	if i < 0 || i >= len(g.Values) {
		return ""
	}
	return g.Values[i].Text()
}

// IsBlank reports whether every value in the group is blank
func (g Group) IsBlank() bool {
	for _, v := range g.Values {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}
