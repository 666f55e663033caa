package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDB_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	conn, err := Connect(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, InitializeDB(ctx, conn))
	// Running it again must be a no-op.
	require.NoError(t, InitializeDB(ctx, conn))

	var tables []string
	err = conn.SelectContext(ctx, &tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	assert.Contains(t, tables, "users")
	assert.Contains(t, tables, "movies")
}

func TestConnect_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "movies.db")

	conn, err := Connect(ctx, path)
	require.NoError(t, err)
	require.NoError(t, InitializeDB(ctx, conn))

	_, err = conn.ExecContext(ctx, `INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		"u1", "a@b.com", "hash", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	reopened, err := Connect(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	var count int
	require.NoError(t, reopened.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, count)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	conn, err := Connect(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, InitializeDB(ctx, conn))

	insert := `INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	_, err = conn.ExecContext(ctx, insert, "u1", "a@b.com", "hash", time.Now().UTC())
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, insert, "u2", "a@b.com", "hash", time.Now().UTC())
	require.Error(t, err)

	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("database is locked")))
	assert.False(t, IsUniqueViolation(nil))
}
