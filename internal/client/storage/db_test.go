package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

func TestOpen_CreatesSchema(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES ('k', x'01')`)
	require.NoError(t, err)

	var value []byte
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = 'k'`).Scan(&value))
	require.Equal(t, []byte{0x01}, value)
}

func TestOpen_IsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db1, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	// reopening must not re-apply migrations or fail
	db2, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db2.Close())
}
