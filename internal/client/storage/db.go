// Package storage opens the local SQLite database and applies schema
// migrations. All durable client state (account, session, history) lives in
// this one file-backed database.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"dermascan/internal/client/migrations"

	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the database at dsn and brings the schema
// up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
