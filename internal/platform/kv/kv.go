// Package kv is a small durable key-value namespace backed by SQLite.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "timebox/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const (
	KeyCurrentSession = "current_session"
	KeySessionHistory = "session_history"
	KeyIsPro          = "is_pro"
	KeyPurchaseDate   = "purchase_date"
	KeyProductID      = "product_id"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writers ordered; sqlite serializes them anyway.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  seq INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, s.db, key)
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return put(ctx, s.db, key, value)
}

// PutSeq writes value only if seq is not older than the stored sequence.
// It reports whether the write was applied.
func (s *Store) PutSeq(ctx context.Context, key string, value []byte, seq int64) (bool, error) {
	return putSeq(ctx, s.db, key, value, seq)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return del(ctx, s.db, key)
}

// Update runs fn inside a single transaction. Returning an error rolls back.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Tx{ctx: ctx, tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type Tx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *Tx) Get(key string) ([]byte, error) {
	return get(t.ctx, t.tx, key)
}

func (t *Tx) Put(key string, value []byte) error {
	return put(t.ctx, t.tx, key, value)
}

func (t *Tx) PutSeq(key string, value []byte, seq int64) error {
	_, err := putSeq(t.ctx, t.tx, key, value, seq)
	return err
}

func (t *Tx) Delete(key string) error {
	return del(t.ctx, t.tx, key)
}

type execQueryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q execQueryer, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func put(ctx context.Context, q execQueryer, key string, value []byte) error {
	const stmt = `
INSERT INTO kv (key, value, seq, updated_at) VALUES (?, ?, 0, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at;
`
	if _, err := q.ExecContext(ctx, stmt, key, value, now()); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func putSeq(ctx context.Context, q execQueryer, key string, value []byte, seq int64) (bool, error) {
	const stmt = `
INSERT INTO kv (key, value, seq, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  seq=excluded.seq,
  updated_at=excluded.updated_at
WHERE excluded.seq >= kv.seq;
`
	res, err := q.ExecContext(ctx, stmt, key, value, seq, now())
	if err != nil {
		return false, fmt.Errorf("put %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put %s: %w", key, err)
	}
	return n > 0, nil
}

func del(ctx context.Context, q execQueryer, key string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
