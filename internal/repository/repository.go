package repository

import (
	"context"
	"errors"

	"loopwright/internal/domain"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested ID
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository stores serialized documents so callers can roll back a
// failed build or replace.
type SnapshotRepository interface {
	// SaveSnapshot stores data unless an identical snapshot exists. The
	// returned bool reports whether a new snapshot was written.
	SaveSnapshot(ctx context.Context, label string, objects int, data []byte) (*domain.Snapshot, bool, error)
	LoadSnapshot(ctx context.Context, id string) (*domain.Snapshot, []byte, error)
	ListSnapshots(ctx context.Context) ([]domain.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error

	// Close releases resources
	Close() error
}
