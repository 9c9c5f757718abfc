package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite stores blobs in the blobs table created by db.OpenSQLite.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, content_type, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET content_type = excluded.content_type, data = excluded.data`,
		key, contentType, data, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store blob %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, string, error) {
	var (
		data []byte
		ct   string
	)
	err := s.db.QueryRowContext(ctx, "SELECT data, content_type FROM blobs WHERE key = ?", key).Scan(&data, &ct)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return data, ct, nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}

var _ Store = (*SQLite)(nil)
