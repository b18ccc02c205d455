package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"loopwright/internal/codec"
	"loopwright/internal/config"
	"loopwright/internal/domain"
	"loopwright/internal/repository"
	"loopwright/internal/schema"
	"loopwright/internal/store"
	"loopwright/internal/topology"
	"loopwright/internal/watcher"

	"go.uber.org/zap"
)

var (
	// ErrNoRepository is returned by snapshot operations when no repository is configured
	ErrNoRepository = errors.New("no snapshot repository configured")
	// ErrWatchDisabled is returned by WatchSchema when schema.watch is off
	ErrWatchDisabled = errors.New("schema watching is disabled")
)

// LoopService builds and edits loops in documents typed by its schema
type LoopService struct {
	mu       sync.RWMutex
	registry *schema.Registry

	schemaPath string
	watch      bool
	debounce   time.Duration
	policy     domain.RenamePolicy
	fluid      domain.Fluid

	repo     repository.SnapshotRepository
	codec    codec.Codec
	eventBus *EventBus
	log      *zap.Logger
}

// NewLoopService creates a loop service. repo may be nil when snapshots are
// not needed. Extra object definitions named by the config are merged over
// the built-in schema.
func NewLoopService(cfg *config.Config, repo repository.SnapshotRepository, eventBus *EventBus, logger *zap.Logger) (*LoopService, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LoopService{
		registry:   schema.Builtin(),
		schemaPath: cfg.Schema.ExtraPath,
		watch:      cfg.Schema.Watch,
		debounce:   cfg.SchemaDebounce(),
		policy:     cfg.RenamePolicy(),
		fluid:      cfg.DefaultFluid(),
		repo:       repo,
		codec:      codec.NewJSONCodec(),
		eventBus:   eventBus,
		log:        logger,
	}
	if s.schemaPath != "" {
		if err := s.ReloadSchema(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Schema returns the current object schema
func (s *LoopService) Schema() *schema.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// NewDocument creates an empty document typed by the current schema
func (s *LoopService) NewDocument() *store.Document {
	return store.NewDocument(s.Schema())
}

func (s *LoopService) engine(doc *store.Document) *topology.Engine {
	return topology.New(doc,
		topology.WithLogger(s.log),
		topology.WithRenamePolicy(s.policy),
	)
}

// BuildLoop builds a loop in doc
func (s *LoopService) BuildLoop(ctx context.Context, doc *store.Document, variant domain.Variant, name string, supply, demand domain.Topology) (*topology.Loop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, err := s.engine(doc).BuildLoop(variant, name, supply, demand)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventLoopBuilt,
		Payload: map[string]string{"loop": l.Name(), "variant": string(variant)},
	})
	return l, nil
}

// OpenLoop returns a handle on a loop already in doc
func (s *LoopService) OpenLoop(doc *store.Document, variant domain.Variant, name string) (*topology.Loop, error) {
	return s.engine(doc).OpenLoop(variant, name)
}

// ReplaceBranch replaces the components of a branch of l. FluidNone means
// the configured default fluid.
func (s *LoopService) ReplaceBranch(ctx context.Context, doc *store.Document, l *topology.Loop, branch string, specs []topology.ComponentSpec, fluid domain.Fluid) (*store.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fluid == domain.FluidNone {
		fluid = s.fluid
	}

	obj, err := s.engine(doc).ReplaceBranch(l, branch, specs, fluid)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventBranchReplaced,
		Payload: map[string]string{"loop": l.Name(), "branch": obj.Name()},
	})
	return obj, nil
}

// ApplyPlan builds every loop of a plan in doc and fills in its branches
func (s *LoopService) ApplyPlan(ctx context.Context, doc *store.Document, plan *codec.Plan) ([]*topology.Loop, error) {
	loops := make([]*topology.Loop, 0, len(plan.Loops))
	for i := range plan.Loops {
		lp := &plan.Loops[i]
		variant, err := lp.VariantOf()
		if err != nil {
			return nil, err
		}
		l, err := s.BuildLoop(ctx, doc, variant, lp.Name, lp.Supply, lp.Demand)
		if err != nil {
			return nil, err
		}
		for _, bp := range lp.Replace {
			if _, err := s.ReplaceBranch(ctx, doc, l, bp.Branch, bp.Components, lp.FluidOf()); err != nil {
				return nil, fmt.Errorf("loop %q: %w", lp.Name, err)
			}
		}
		loops = append(loops, l)
	}
	return loops, nil
}

// Snapshot stores doc in the repository
func (s *LoopService) Snapshot(ctx context.Context, doc *store.Document, label string) (*domain.Snapshot, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	var buf bytes.Buffer
	if err := s.codec.Encode(doc, &buf); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	snap, created, err := s.repo.SaveSnapshot(ctx, label, doc.Len(), buf.Bytes())
	if err != nil {
		return nil, err
	}

	if created {
		s.log.Info("snapshot saved",
			zap.String("id", snap.ID),
			zap.String("label", label),
			zap.Int("objects", snap.Objects),
		)
		s.eventBus.Publish(Event{
			Type:    EventSnapshotSaved,
			Payload: map[string]string{"id": snap.ID, "label": snap.Label},
		})
	}
	return snap, nil
}

// Restore loads a snapshot into a new document typed by the current schema
func (s *LoopService) Restore(ctx context.Context, id string) (*store.Document, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}

	snap, data, err := s.repo.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.codec.Decode(bytes.NewReader(data), s.Schema())
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", id, err)
	}

	s.eventBus.Publish(Event{
		Type:    EventSnapshotRestored,
		Payload: map[string]string{"id": snap.ID, "label": snap.Label},
	})
	return doc, nil
}

// ReloadSchema rereads the extra object definitions. On error the current
// schema is kept.
func (s *LoopService) ReloadSchema() error {
	if s.schemaPath == "" {
		return nil
	}
	extra, err := schema.LoadFile(s.schemaPath)
	if err != nil {
		return err
	}
	merged := schema.Builtin().Merge(extra)

	s.mu.Lock()
	s.registry = merged
	s.mu.Unlock()

	s.log.Info("schema loaded",
		zap.String("path", s.schemaPath),
		zap.Int("extra_types", extra.Len()),
		zap.Int("types", merged.Len()),
	)
	s.eventBus.Publish(Event{
		Type:    EventSchemaReloaded,
		Payload: map[string]int{"types": merged.Len()},
	})
	return nil
}

// WatchSchema reloads the schema whenever the extra definitions file
// changes. It blocks until ctx is cancelled, and returns ErrWatchDisabled
// at once unless schema.watch is set.
func (s *LoopService) WatchSchema(ctx context.Context) error {
	if !s.watch {
		return ErrWatchDisabled
	}
	if s.schemaPath == "" {
		return errors.New("no schema file to watch")
	}
	w := watcher.New(s.schemaPath, func() {
		if err := s.ReloadSchema(); err != nil {
			s.log.Error("schema reload failed", zap.String("path", s.schemaPath), zap.Error(err))
		}
	}, s.log).WithDebounce(s.debounce)
	return w.Watch(ctx)
}
