package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite stores entries in the kv_entries table created by db.OpenSQLite.
// A positive quota applies per QuotaScope.
type SQLite struct {
	db    *sql.DB
	quota int64
}

// NewSQLite wraps an opened database; quota <= 0 disables the cap.
func NewSQLite(db *sql.DB, quota int64) *SQLite {
	return &SQLite{db: db, quota: quota}
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_entries WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return v, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if s.quota > 0 {
		used, err := s.usedBy(ctx, QuotaScope(key), key)
		if err != nil {
			return err
		}
		if used+int64(len(key)+len(value)) > s.quota {
			return ErrQuotaExceeded
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// usedBy sums the entries charged to scope, leaving out key itself.
func (s *SQLite) usedBy(ctx context.Context, scope, key string) (int64, error) {
	const sum = "SELECT COALESCE(SUM(length(key) + length(value)), 0) FROM kv_entries WHERE key <> ? AND "
	var (
		used int64
		err  error
	)
	if scope == "" {
		err = s.db.QueryRowContext(ctx,
			sum+"substr(key, 1, ?) <> ? AND substr(key, 1, ?) <> ?", key,
			len(ClientNamespace)+1, ClientNamespace+"/", len(SessionNamespace)+1, SessionNamespace+"/",
		).Scan(&used)
	} else {
		err = s.db.QueryRowContext(ctx, sum+"substr(key, 1, ?) = ?", key, len(scope), scope).Scan(&used)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to measure usage of %q: %w", scope, err)
	}
	return used, nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM kv_entries WHERE substr(key, 1, ?) = ? ORDER BY key", len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

var _ Backend = (*SQLite)(nil)
