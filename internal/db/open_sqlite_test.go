//go:build !mem

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (KV, context.Context) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	kv, err := Open(ctx, "sqlite://"+dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv, ctx
}

func TestSQLiteKV(t *testing.T) {
	kv, ctx := setupTestDB(t)

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "events")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "events", "[1]"))
		v, err := kv.Get(ctx, "events")
		require.NoError(t, err)
		assert.Equal(t, "[1]", v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "events", "[2]"))
		v, err := kv.Get(ctx, "events")
		require.NoError(t, err)
		assert.Equal(t, "[2]", v)
	})

	t.Run("delete removes and is idempotent", func(t *testing.T) {
		require.NoError(t, kv.Delete(ctx, "events"))
		require.NoError(t, kv.Delete(ctx, "events"))
		_, err := kv.Get(ctx, "events")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteKVPersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "calpad.db")
	ctx := context.Background()

	kv, err := Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "calendarView", "week"))
	require.NoError(t, kv.Close())

	kv, err = Open(ctx, "sqlite://"+dbPath)
	require.NoError(t, err)
	defer kv.Close()
	v, err := kv.Get(ctx, "calendarView")
	require.NoError(t, err)
	assert.Equal(t, "week", v)
}
