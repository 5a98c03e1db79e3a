package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "device.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_GetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "queue", "payload-1"))

	value, err := store.Get(ctx, "queue")
	require.NoError(t, err)
	assert.Equal(t, "payload-1", value)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "queue", "old"))
	require.NoError(t, store.Set(ctx, "queue", "new"))

	value, err := store.Get(ctx, "queue")
	require.NoError(t, err)
	assert.Equal(t, "new", value)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "queue", "payload"))
	require.NoError(t, store.Delete(ctx, "queue"))

	_, err := store.Get(ctx, "queue")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete(ctx, "queue"))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "queue", "durable"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	value, err := second.Get(ctx, "queue")
	require.NoError(t, err)
	assert.Equal(t, "durable", value)
}
