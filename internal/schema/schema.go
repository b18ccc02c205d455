package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the semantic type of a field
type FieldKind string

const (
	KindValue FieldKind = "value"
	KindNode  FieldKind = "node"
)

// GroupIndexPlaceholder marks where the 1-based group number goes in an extensible field name
const GroupIndexPlaceholder = "{n}"

// FieldDef describes one field
type FieldDef struct {
	Name string    `yaml:"name"`
	Kind FieldKind `yaml:"kind,omitempty"`
}

// IsNode reports whether the field holds a node identifier
func (f FieldDef) IsNode() bool {
	return f.Kind == KindNode
}

// ObjectDef describes an object type: its fixed fields followed by an
// optional repeating group of extensible fields.
type ObjectDef struct {
	Type       string     `yaml:"type"`
	Fields     []FieldDef `yaml:"fields"`
	Extensible []FieldDef `yaml:"extensible,omitempty"`
	MaxGroups  int        `yaml:"max_groups,omitempty"` // 0 = unbounded
}

// Key returns the case-insensitive lookup key of the type
func (d *ObjectDef) Key() string {
	return strings.ToUpper(d.Type)
}

// GroupWidth returns the number of fields in one extensible group
func (d *ObjectDef) GroupWidth() int {
	return len(d.Extensible)
}

// ExtensibleStart returns the position of the first extensible field
func (d *ObjectDef) ExtensibleStart() int {
	return len(d.Fields)
}

// FieldAt returns the definition of the field at position i
func (d *ObjectDef) FieldAt(i int) (FieldDef, bool) {
	if i < 0 {
		return FieldDef{}, false
	}
	if i < len(d.Fields) {
		return d.Fields[i], true
	}
	width := d.GroupWidth()
	if width == 0 {
		return FieldDef{}, false
	}
	group, offset := (i-len(d.Fields))/width, (i-len(d.Fields))%width
	if d.MaxGroups > 0 && group >= d.MaxGroups {
		return FieldDef{}, false
	}
	tmpl := d.Extensible[offset]
	return FieldDef{Name: expandGroupName(tmpl.Name, group+1), Kind: tmpl.Kind}, true
}

// IndexOf returns the position of the named field
func (d *ObjectDef) IndexOf(name string) (int, bool) {
	for i, f := range d.Fields {
		if strings.EqualFold(f.Name, name) {
			return i, true
		}
	}
	for offset, tmpl := range d.Extensible {
		n, ok := matchGroupName(tmpl.Name, name)
		if !ok {
			continue
		}
		if d.MaxGroups > 0 && n > d.MaxGroups {
			return 0, false
		}
		return len(d.Fields) + (n-1)*d.GroupWidth() + offset, true
	}
	return 0, false
}

func (d *ObjectDef) validate() error {
	if strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("object definition without type")
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("%s: at least one field is required", d.Type)
	}
	seen := make(map[string]bool)
	for i := range d.Fields {
		if err := normalizeKind(&d.Fields[i]); err != nil {
			return fmt.Errorf("%s: %w", d.Type, err)
		}
		key := strings.ToUpper(d.Fields[i].Name)
		if seen[key] {
			return fmt.Errorf("%s: duplicate field %s", d.Type, d.Fields[i].Name)
		}
		seen[key] = true
	}
	for i := range d.Extensible {
		if err := normalizeKind(&d.Extensible[i]); err != nil {
			return fmt.Errorf("%s: %w", d.Type, err)
		}
		if strings.Count(d.Extensible[i].Name, GroupIndexPlaceholder) != 1 {
			return fmt.Errorf("%s: extensible field %s must contain %s once",
				d.Type, d.Extensible[i].Name, GroupIndexPlaceholder)
		}
	}
	if d.MaxGroups < 0 {
		return fmt.Errorf("%s: max_groups must not be negative", d.Type)
	}
	return nil
}

func normalizeKind(f *FieldDef) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("field without name")
	}
	switch f.Kind {
	case "":
		f.Kind = KindValue
	case KindValue, KindNode:
	default:
		return fmt.Errorf("field %s: unknown kind %q", f.Name, f.Kind)
	}
	return nil
}

func expandGroupName(tmpl string, n int) string {
	return strings.Replace(tmpl, GroupIndexPlaceholder, strconv.Itoa(n), 1)
}

// matchGroupName extracts the group number from name if it fits tmpl
func matchGroupName(tmpl, name string) (int, bool) {
	i := strings.Index(tmpl, GroupIndexPlaceholder)
	prefix, suffix := tmpl[:i], tmpl[i+len(GroupIndexPlaceholder):]
	if len(name) <= len(prefix)+len(suffix) {
		return 0, false
	}
	if !strings.EqualFold(name[:len(prefix)], prefix) || !strings.EqualFold(name[len(name)-len(suffix):], suffix) {
		return 0, false
	}
	n, err := strconv.Atoi(name[len(prefix) : len(name)-len(suffix)])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
