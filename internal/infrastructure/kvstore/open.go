package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/config"
)

const redisLockExpiry = 10 * time.Second

// Backend bundles the configured store with a locker that matches its scope.
type Backend struct {
	Store  Store
	Locker Locker
	Name   string
}

// Open builds the store selected by cfg.StoreBackend, wrapped with metrics and
// an optional LRU read cache.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	var (
		store  Store
		locker Locker = NewMutexLocker()
	)

	switch cfg.StoreBackend {
	case config.StoreMemory:
		store = NewMemoryStore()
	case config.StoreFile:
		fs, err := NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		store = fs
	case config.StoreRedis:
		rs, err := NewRedisStore(ctx, cfg.RedisURL, cfg.StoreNamespace)
		if err != nil {
			return nil, err
		}
		store = rs
		locker = rs.Locker(redisLockExpiry)
	case config.StorePostgres:
		ps, err := NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = ps
	case config.StoreMongo:
		ms, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		store = ms
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}

	store = Instrument(store, cfg.StoreBackend)

	if cfg.StoreCacheSize > 0 {
		cached, err := NewCachedStore(store, cfg.StoreCacheSize)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		store = cached
	}

	log.Info().
		Str("backend", cfg.StoreBackend).
		Int("cache_size", cfg.StoreCacheSize).
		Msg("persisted store opened")

	return &Backend{Store: store, Locker: locker, Name: cfg.StoreBackend}, nil
}
