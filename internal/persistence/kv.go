package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
)

// KeyValueStore is the string-keyed substrate every repository persists
// through. Get reports ok=false for an absent key rather than an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the substrate selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (KeyValueStore, error) {
	var (
		store KeyValueStore
		err   error
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store = NewMemoryStore()
	case config.DriverBolt:
		store, err = NewBoltStore(cfg.Storage.BoltPath, logger)
	case config.DriverRedis:
		store = NewRedis(cfg.Redis, logger)
	case config.DriverPostgres:
		var pg *Postgres
		pg, err = NewPostgres(ctx, cfg.Postgres, logger)
		if err == nil && cfg.Postgres.RunMigrations {
			if err = RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
			}
		}
		store = pg
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}

	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))
	return WithPrefix(store, cfg.Storage.KeyPrefix), nil
}

type prefixedStore struct {
	KeyValueStore
	prefix string
}

// WithPrefix namespaces every key of store. An empty prefix returns store unchanged.
func WithPrefix(store KeyValueStore, prefix string) KeyValueStore {
	if prefix == "" {
		return store
	}
	return &prefixedStore{KeyValueStore: store, prefix: prefix}
}

func (p *prefixedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return p.KeyValueStore.Get(ctx, p.prefix+key)
}

func (p *prefixedStore) Set(ctx context.Context, key, value string) error {
	return p.KeyValueStore.Set(ctx, p.prefix+key, value)
}

func (p *prefixedStore) Remove(ctx context.Context, key string) error {
	return p.KeyValueStore.Remove(ctx, p.prefix+key)
}
