package storage

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, store Storage) {
	t.Helper()
	ctx := context.Background()

	value, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Empty(t, value, "missing key reads as empty")

	require.NoError(t, store.Set(ctx, "token", "abc"))
	require.NoError(t, store.Set(ctx, "userId", "u-1"))

	value, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	require.NoError(t, store.Set(ctx, "token", "def"))
	value, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def", value)

	require.NoError(t, store.Delete(ctx, "token", "userId", "never-set"))
	value, err = store.Get(ctx, "userId")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, store.Delete(ctx))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestRedisStorage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewRedisStorage(context.Background(), RedisOptions{Addr: mr.Addr(), Namespace: "profile-a"})
	require.NoError(t, err)
	defer store.Close()

	exerciseStorage(t, store)

	t.Run("keys are namespaced", func(t *testing.T) {
		require.NoError(t, store.Set(context.Background(), "userId", "u-9"))
		got, err := mr.Get("profile-a:userId")
		require.NoError(t, err)
		assert.Equal(t, "u-9", got)
	})

	t.Run("missing address", func(t *testing.T) {
		_, err := NewRedisStorage(context.Background(), RedisOptions{})
		assert.Error(t, err)
	})
}

func TestPostgresStorage(t *testing.T) {
	conn := os.Getenv("POSTGRES_TEST_CONN")
	if conn == "" {
		t.Skip("POSTGRES_TEST_CONN is not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, conn)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS client_storage (
		namespace VARCHAR(100) NOT NULL, key VARCHAR(100) NOT NULL, value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(), PRIMARY KEY (namespace, key))`)
	require.NoError(t, err)

	store := NewPostgresStorage(pool, "storage-test")
	defer store.Close()
	exerciseStorage(t, store)
}
