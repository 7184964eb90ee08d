package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
)

// runContract exercises the get/set/remove round trip every substrate must honor.
func runContract(t *testing.T, store KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		val, ok, err := store.Get(ctx, "contract:missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, val)
	})

	t.Run("set then get", func(t *testing.T) {
		payload := `[{"id":1,"title":"Printer is broken","comments":[]}]`
		require.NoError(t, store.Set(ctx, "contract:tickets", payload))

		val, ok, err := store.Get(ctx, "contract:tickets")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, payload, val)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract:k", "one"))
		require.NoError(t, store.Set(ctx, "contract:k", "two"))

		val, _, err := store.Get(ctx, "contract:k")
		require.NoError(t, err)
		assert.Equal(t, "two", val)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract:gone", "x"))
		require.NoError(t, store.Remove(ctx, "contract:gone"))

		_, ok, err := store.Get(ctx, "contract:gone")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Remove(ctx, "contract:never-set"), "removing an absent key is not an error")
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, store.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	runContract(t, NewMemoryStore())
}

func TestBoltStore(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "kv.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	runContract(t, store)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	store, err := NewBoltStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "tickets", "[]"))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	val, ok, err := reopened.Get(ctx, "tickets")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", val)
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	store := WithPrefix(base, "desk:")

	require.NoError(t, store.Set(ctx, "tickets", "[]"))

	_, ok, _ := base.Get(ctx, "desk:tickets")
	assert.True(t, ok)
	_, ok, _ = base.Get(ctx, "tickets")
	assert.False(t, ok)

	assert.Same(t, base, WithPrefix(base, ""))
	runContract(t, store)
}

func TestOpen(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory
	cfg.Storage.KeyPrefix = "t:"

	store, err := Open(context.Background(), *cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	runContract(t, store)

	cfg.Storage.Driver = "tape"
	_, err = Open(context.Background(), *cfg, zap.NewNop())
	require.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	store := NewRedis(config.RedisConfig{Addr: addr}, zap.NewNop())
	t.Cleanup(func() { _ = store.Close() })

	runContract(t, WithPrefix(store, "ticket-desk-test:"))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Close() })

	require.NoError(t, RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
	require.NoError(t, RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()), "second run is a no-op")
	runContract(t, pg)
}

func TestMigrationNamesSorted(t *testing.T) {
	names, err := migrationNames(migrationFiles)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_kv_entries.sql", names[0])
	assert.IsNonDecreasing(t, names)
}
