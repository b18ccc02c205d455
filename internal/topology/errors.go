package topology

import (
	"errors"
	"fmt"
	"strings"

	"loopwright/internal/domain"
	"loopwright/internal/store"
)

// ErrNoPort is returned when a component has no field for the requested port role
var ErrNoPort = errors.New("component has no port")

// AmbiguousPortError reports a component with several ports of one role and
// no hint selecting among them.
type AmbiguousPortError struct {
	ComponentType string
	ComponentName string
	Role          domain.Role
	Hint          string
	Candidates    []string
}

func (e *AmbiguousPortError) Error() string {
	ports := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		ports[i] = strings.TrimSuffix(c, string(e.Role))
	}
	if e.Hint == "" {
		return fmt.Sprintf("where should %s %q connect? %s ports: %s",
			e.ComponentType, e.ComponentName, e.Role, strings.Join(ports, ", "))
	}
	return fmt.Sprintf("port hint %q matches no %s port of %s %q: %s",
		e.Hint, e.Role, e.ComponentType, e.ComponentName, strings.Join(ports, ", "))
}

// UnknownComponentTypeError reports a component spec naming a type absent from the schema
type UnknownComponentTypeError struct {
	TypeName string
}

func (e *UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("unknown component type %q", e.TypeName)
}

// Unwrap lets errors.Is match store.ErrUnknownType
func (e *UnknownComponentTypeError) Unwrap() error {
	return store.ErrUnknownType
}

// StructureError reports an operation called against a document that does
// not have the structure it requires.
type StructureError struct {
	Op     string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
