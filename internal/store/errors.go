package store

import "errors"

var (
	// ErrFieldNotFound is returned when the schema of an object has no such field.
	// Probing an indexed field family past its extent yields this error.
	ErrFieldNotFound = errors.New("field not found")
	// ErrUnknownType is returned when the schema has no such object type
	ErrUnknownType = errors.New("unknown object type")
	// ErrObjectNotFound is returned when no object of the type has the name
	ErrObjectNotFound = errors.New("object not found")
	// ErrDuplicateObject is returned when creating an object whose type and name already exist
	ErrDuplicateObject = errors.New("duplicate object")
	// ErrNotNodeField is returned when staging a rename on a field that is not a node field
	ErrNotNodeField = errors.New("not a node field")
	// ErrGroupLimit is returned when an extensible group would exceed the schema maximum
	ErrGroupLimit = errors.New("extensible group limit exceeded")
)
