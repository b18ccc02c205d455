package schema

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed hvac.yaml
var builtinYAML []byte

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Registry indexes object definitions by case-insensitive type name
type Registry struct {
	defs  map[string]*ObjectDef
	order []string
}

// schemaFile is the YAML layout of a schema file
type schemaFile struct {
	Version int         `yaml:"version"`
	Objects []ObjectDef `yaml:"objects"`
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ObjectDef)}
}

// Builtin returns the embedded HVAC schema. The returned registry is shared
// and must not be modified; use Merge to extend it.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		reg, err := Parse(builtinYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded schema: %v", err))
		}
		builtin = reg
	})
	return builtin
}

// LoadFile reads a schema from a YAML file
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

// Parse reads a schema from YAML bytes
func Parse(data []byte) (*Registry, error) {
	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	reg := NewRegistry()
	for _, def := range f.Objects {
		if err := reg.Add(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Add validates and registers a definition, replacing any previous definition of the same type
func (r *Registry) Add(def ObjectDef) error {
	if err := def.validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	key := def.Key()
	if _, exists := r.defs[key]; !exists {
		r.order = append(r.order, key)
	}
	d := def
	r.defs[key] = &d
	return nil
}

// Lookup finds a definition by type name in any case
func (r *Registry) Lookup(typeName string) (*ObjectDef, bool) {
	def, ok := r.defs[strings.ToUpper(strings.TrimSpace(typeName))]
	return def, ok
}

// Types returns the canonical type names in registration order
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.order))
	for _, key := range r.order {
		types = append(types, r.defs[key].Type)
	}
	return types
}

// Len returns the number of registered types
func (r *Registry) Len() int {
	return len(r.defs)
}

// Merge returns a new registry holding r's definitions overridden by other's
func (r *Registry) Merge(other *Registry) *Registry {
	merged := NewRegistry()
	for _, reg := range []*Registry{r, other} {
		if reg == nil {
			continue
		}
		for _, key := range reg.order {
			def := *reg.defs[key]
			if _, exists := merged.defs[key]; !exists {
				merged.order = append(merged.order, key)
			}
			merged.defs[key] = &def
		}
	}
	return merged
}
