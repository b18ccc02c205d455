package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"loopwright/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates a repository in a temporary directory
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "loopwright.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// steppingClock returns a clock advancing one second per call
func steppingClock() func() time.Time {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	data := []byte(`{"version":1,"objects":[]}`)

	snap, created, err := repo.SaveSnapshot(ctx, "before build", 0, data)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, Digest(data), snap.Digest)

	loaded, got, err := repo.LoadSnapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, snap.ID, loaded.ID)
	assert.Equal(t, "before build", loaded.Label)
	assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
}

func TestSaveSnapshotDeduplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, created, err := repo.SaveSnapshot(ctx, "one", 3, []byte("same"))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := repo.SaveSnapshot(ctx, "two", 3, []byte("same"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "one", second.Label)

	snaps, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestListSnapshotsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	repo.now = steppingClock()
	ctx := context.Background()

	var ids []string
	for _, data := range []string{"a", "b", "c"} {
		snap, _, err := repo.SaveSnapshot(ctx, data, 1, []byte(data))
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	snaps, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{snaps[0].ID, snaps[1].ID, snaps[2].ID})
	assert.Equal(t, "c", snaps[0].Label)
}

func TestDeleteSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap, _, err := repo.SaveSnapshot(ctx, "", 0, []byte("x"))
	require.NoError(t, err)
	require.NoError(t, repo.DeleteSnapshot(ctx, snap.ID))

	_, _, err = repo.LoadSnapshot(ctx, snap.ID)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
	assert.ErrorIs(t, repo.DeleteSnapshot(ctx, snap.ID), repository.ErrSnapshotNotFound)
}

func TestMigrateIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loopwright.db")
	repo, err := New(path)
	require.NoError(t, err)
	_, _, err = repo.SaveSnapshot(context.Background(), "kept", 0, []byte("kept"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = New(path)
	require.NoError(t, err)
	defer repo.Close()

	snaps, err := repo.ListSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "kept", snaps[0].Label)

	var version string
	require.NoError(t, repo.db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&version))
	assert.Equal(t, schemaVersion, version)
}
