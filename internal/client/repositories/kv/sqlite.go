package kv

import (
	"context"
	"database/sql"
	"fmt"

	"dermascan/internal/dbx"
)

// SQLiteRepository stores key-value pairs in the kv table. It accepts a
// dbx.DBTX so the same repository works inside and outside transactions.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv`)
	if err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}
