package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jislas1039-svg/higher-self/internal/database"
)

// SQLiteBackend keeps slots in the kv_slots table.
type SQLiteBackend struct {
	db    *database.DB
	quota int64
}

// NewSQLiteBackend opens (and migrates) the database at path.
func NewSQLiteBackend(path string, quotaBytes int64) (*SQLiteBackend, error) {
	db, err := database.NewDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: db, quota: quotaBytes}, nil
}

func (s *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.SQL.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	if s.quota > 0 {
		var used int64
		err := s.db.SQL.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(LENGTH(key) + LENGTH(CAST(value AS BLOB))), 0) FROM kv_slots WHERE key <> ?`, key,
		).Scan(&used)
		if err != nil {
			return fmt.Errorf("failed to measure storage: %w", err)
		}
		if !fits(s.quota, used, slotSize(key, value)) {
			return ErrCapacityExceeded
		}
	}

	_, err := s.db.SQL.ExecContext(ctx, `
		INSERT OR REPLACE INTO kv_slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Remove(ctx context.Context, key string) error {
	if _, err := s.db.SQL.ExecContext(ctx, `DELETE FROM kv_slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove slot %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
