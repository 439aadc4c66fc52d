package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

// PostgresShareStore persists snapshots as JSONB rows keyed by share code.
//
// Schema:
//
//	CREATE TABLE share_entries (
//	    code       TEXT PRIMARY KEY,
//	    snapshot   JSONB NOT NULL,
//	    shared_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresShareStore struct {
	db *sqlx.DB
}

// NewPostgresShareStore constructs the store.
func NewPostgresShareStore(db *sqlx.DB) *PostgresShareStore {
	return &PostgresShareStore{db: db}
}

// Put stores or overwrites the snapshot under the code.
func (s *PostgresShareStore) Put(ctx context.Context, code string, snap *models.ShareSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", code, err)
	}
	const query = `INSERT INTO share_entries (code, snapshot, shared_at)
VALUES ($1, $2, $3)
ON CONFLICT (code)
DO UPDATE SET snapshot = EXCLUDED.snapshot, shared_at = EXCLUDED.shared_at`
	if _, err := s.db.ExecContext(ctx, query, code, raw, sharedAtTime(snap)); err != nil {
		return fmt.Errorf("put share entry %s: %w", code, err)
	}
	return nil
}

// Get fetches the snapshot for the code.
func (s *PostgresShareStore) Get(ctx context.Context, code string) (*models.ShareSnapshot, error) {
	const query = `SELECT snapshot FROM share_entries WHERE code = $1`
	var raw []byte
	if err := s.db.GetContext(ctx, &raw, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get share entry %s: %w", code, err)
	}
	return unmarshalSnapshot(code, raw)
}

// Update applies mutate inside a transaction holding a row lock on the
// entry, so concurrent message appends and lock toggles on the same code
// serialize instead of overwriting each other.
func (s *PostgresShareStore) Update(ctx context.Context, code string, mutate func(*models.ShareSnapshot) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin share update tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const selectQuery = `SELECT snapshot FROM share_entries WHERE code = $1 FOR UPDATE`
	var raw []byte
	if err := tx.GetContext(ctx, &raw, selectQuery, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return fmt.Errorf("lock share entry %s: %w", code, err)
	}

	snap, err := unmarshalSnapshot(code, raw)
	if err != nil {
		return err
	}
	if err := mutate(snap); err != nil {
		return err
	}

	updated, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", code, err)
	}
	const updateQuery = `UPDATE share_entries SET snapshot = $2 WHERE code = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, code, updated); err != nil {
		return fmt.Errorf("update share entry %s: %w", code, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit share update %s: %w", code, err)
	}
	return nil
}

// Delete removes the entry if present.
func (s *PostgresShareStore) Delete(ctx context.Context, code string) error {
	const query = `DELETE FROM share_entries WHERE code = $1`
	if _, err := s.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("delete share entry %s: %w", code, err)
	}
	return nil
}

// PurgeExpired drops entries shared before the cutoff.
func (s *PostgresShareStore) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	const query = `DELETE FROM share_entries WHERE shared_at < $1`
	res, err := s.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge share entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func unmarshalSnapshot(code string, raw []byte) (*models.ShareSnapshot, error) {
	snap := &models.ShareSnapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", code, err)
	}
	snap.Normalize()
	return snap, nil
}

func sharedAtTime(snap *models.ShareSnapshot) time.Time {
	if snap.SharedAt > 0 {
		return time.UnixMilli(snap.SharedAt).UTC()
	}
	return time.Now().UTC()
}
