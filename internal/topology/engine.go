package topology

import (
	"loopwright/internal/domain"
	"loopwright/internal/schema"
	"loopwright/internal/store"

	"go.uber.org/zap"
)

// Records is the record store the engine mutates
type Records interface {
	Schema() *schema.Registry
	NewObject(typeName, name string) (*store.Object, error)
	Object(typeName, name string) (*store.Object, error)
	ObjectsOfType(typeName string) []*store.Object
	Types() []string
}

// Engine builds and edits loops in one document. It holds no state between
// calls beyond the document handle, and must not be shared across goroutines.
type Engine struct {
	doc    Records
	log    *zap.Logger
	policy domain.RenamePolicy
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRenamePolicy sets how conflicting staged renames are handled
func WithRenamePolicy(p domain.RenamePolicy) Option {
	return func(e *Engine) {
		if p.Valid() {
			e.policy = p
		}
	}
}

// New creates an engine over a document
func New(doc Records, opts ...Option) *Engine {
	e := &Engine{
		doc:    doc,
		log:    zap.NewNop(),
		policy: domain.RenameReject,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document returns the document the engine edits
func (e *Engine) Document() Records {
	return e.doc
}

// Propagate applies every staged rename in the document
func (e *Engine) Propagate() (int, error) {
	n, err := PropagateRenames(e.doc, e.policy)
	if err != nil {
		return 0, err
	}
	e.log.Debug("renames propagated", zap.Int("fields", n))
	return n, nil
}
