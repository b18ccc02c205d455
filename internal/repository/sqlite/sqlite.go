package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"loopwright/internal/domain"
	"loopwright/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Repository implements repository.SnapshotRepository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.SnapshotRepository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		label TEXT,
		digest TEXT NOT NULL UNIQUE,
		objects INTEGER NOT NULL DEFAULT 0,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return err
	}
	_, err := r.db.Exec(`
		INSERT INTO metadata (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, schemaVersion)
	return err
}

// Digest returns the hex BLAKE2b-256 digest identifying snapshot data
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SaveSnapshot stores a serialized document. Saving data identical to an
// existing snapshot returns the existing one.
func (r *Repository) SaveSnapshot(ctx context.Context, label string, objects int, data []byte) (*domain.Snapshot, bool, error) {
	digest := Digest(data)

	existing, err := r.scanSnapshot(r.db.QueryRowContext(ctx, `
		SELECT id, label, digest, objects, created_at FROM snapshots WHERE digest = ?
	`, digest))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrSnapshotNotFound) {
		return nil, false, err
	}

	snap := &domain.Snapshot{
		ID:        uuid.NewString(),
		Label:     label,
		Digest:    digest,
		Objects:   objects,
		CreatedAt: r.now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, label, digest, objects, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, stringToNull(label), snap.Digest, snap.Objects, data, snap.CreatedAt.UnixNano())
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return snap, true, nil
}

// LoadSnapshot returns a snapshot and its data
func (r *Repository) LoadSnapshot(ctx context.Context, id string) (*domain.Snapshot, []byte, error) {
	var (
		label     sql.NullString
		data      []byte
		createdAt int64
	)
	snap := &domain.Snapshot{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, label, digest, objects, data, created_at FROM snapshots WHERE id = ?
	`, id).Scan(&snap.ID, &label, &snap.Digest, &snap.Objects, &data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%s: %w", id, repository.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	snap.Label = nullToString(label)
	snap.CreatedAt = time.Unix(0, createdAt).UTC()

	if Digest(data) != snap.Digest {
		return nil, nil, fmt.Errorf("snapshot %s: data does not match digest", id)
	}
	return snap, data, nil
}

// ListSnapshots returns all snapshots, newest first
func (r *Repository) ListSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, digest, objects, created_at FROM snapshots
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		snap, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snaps, nil
}

// DeleteSnapshot removes a snapshot
func (r *Repository) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, repository.ErrSnapshotNotFound)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var (
		label     sql.NullString
		createdAt int64
	)
	snap := &domain.Snapshot{}
	err := row.Scan(&snap.ID, &label, &snap.Digest, &snap.Objects, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	snap.Label = nullToString(label)
	snap.CreatedAt = time.Unix(0, createdAt).UTC()
	return snap, nil
}
