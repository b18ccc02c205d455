package store

import (
	"fmt"
	"strings"

	"loopwright/internal/schema"
)

// Document is an in-memory record store: objects grouped by type, each type
// kept in creation order. A Document is not safe for concurrent use; one
// build or replace call owns it for its whole duration.
type Document struct {
	registry *schema.Registry
	objects  map[string][]*Object
	order    []string
}

// NewDocument creates an empty document over a schema
func NewDocument(registry *schema.Registry) *Document {
	return &Document{
		registry: registry,
		objects:  make(map[string][]*Object),
	}
}

// Schema returns the registry the document is typed by
func (d *Document) Schema() *schema.Registry {
	return d.registry
}

// NewObject creates an object of typeName. A non-blank name is written to the
// first field and must be unique within the type.
func (d *Document) NewObject(typeName, name string) (*Object, error) {
	def, ok := d.registry.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typeName, ErrUnknownType)
	}
	if strings.TrimSpace(name) != "" {
		if existing := d.find(def.Key(), name); existing != nil {
			return nil, fmt.Errorf("%s: %w", existing, ErrDuplicateObject)
		}
	}
	obj := newObject(def)
	if name != "" {
		obj.values[0] = Plain(name)
	}
	d.add(def.Key(), obj)
	return obj, nil
}

// Insert adds an object with the given positional values, as read from a serialized document
func (d *Document) Insert(typeName string, values []string) (*Object, error) {
	def, ok := d.registry.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typeName, ErrUnknownType)
	}
	obj := newObject(def)
	for i, s := range values {
		if _, ok := def.FieldAt(i); !ok {
			return nil, fmt.Errorf("%s: value %d beyond schema: %w", def.Type, i, ErrFieldNotFound)
		}
		obj.ensureLen(i + 1)
		obj.values[i] = Plain(s)
	}
	if name := obj.Name(); strings.TrimSpace(name) != "" {
		if existing := d.find(def.Key(), name); existing != nil {
			return nil, fmt.Errorf("%s: %w", existing, ErrDuplicateObject)
		}
	}
	d.add(def.Key(), obj)
	return obj, nil
}

// Object finds an object by type and name. Both are matched case-insensitively.
func (d *Document) Object(typeName, name string) (*Object, error) {
	def, ok := d.registry.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typeName, ErrUnknownType)
	}
	obj := d.find(def.Key(), name)
	if obj == nil {
		return nil, fmt.Errorf("%s %q: %w", def.Type, name, ErrObjectNotFound)
	}
	return obj, nil
}

// ObjectsOfType returns the objects of a type in creation order
func (d *Document) ObjectsOfType(typeName string) []*Object {
	def, ok := d.registry.Lookup(typeName)
	if !ok {
		return nil
	}
	return append([]*Object(nil), d.objects[def.Key()]...)
}

// Types returns the canonical names of the types holding objects, in order of first use
func (d *Document) Types() []string {
	types := make([]string, 0, len(d.order))
	for _, key := range d.order {
		if objs := d.objects[key]; len(objs) > 0 {
			types = append(types, objs[0].Type())
		}
	}
	return types
}

// Len returns the total number of objects
func (d *Document) Len() int {
	n := 0
	for _, objs := range d.objects {
		n += len(objs)
	}
	return n
}

// PendingCount returns the number of fields holding a staged rename
func (d *Document) PendingCount() int {
	n := 0
	for _, key := range d.order {
		for _, obj := range d.objects[key] {
			for _, v := range obj.values {
				if v.IsPending() {
					n++
				}
			}
		}
	}
	return n
}

// Clone returns a deep copy sharing the schema
func (d *Document) Clone() *Document {
	c := NewDocument(d.registry)
	for _, key := range d.order {
		for _, obj := range d.objects[key] {
			c.add(key, obj.clone())
		}
	}
	return c
}

func (d *Document) find(key, name string) *Object {
	for _, obj := range d.objects[key] {
		if strings.EqualFold(obj.Name(), name) {
			return obj
		}
	}
	return nil
}

func (d *Document) add(key string, obj *Object) {
	if _, ok := d.objects[key]; !ok {
		d.order = append(d.order, key)
	}
	d.objects[key] = append(d.objects[key], obj)
}
