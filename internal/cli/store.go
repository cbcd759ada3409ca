package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/caesartm/internal/config"
	"github.com/aretw0/caesartm/pkg/adapters/memory"
	"github.com/aretw0/caesartm/pkg/adapters/redis"
	"github.com/aretw0/caesartm/pkg/adapters/sqlite"
	"github.com/aretw0/caesartm/pkg/persistence/middleware"
	"github.com/aretw0/caesartm/pkg/ports"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore builds the run store selected by cfg.Driver, wrapped in the
// encryption middleware when a key is configured. The returned closer is never
// nil on success. DriverNone yields a nil store (runs are not persisted).
func OpenStore(ctx context.Context, cfg config.StoreConfig) (ports.RunStore, io.Closer, error) {
	store, closer, err := openBackend(ctx, cfg)
	if err != nil || store == nil || cfg.EncryptionKey == "" {
		return store, closer, err
	}

	key, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		_ = closer.Close()
		return nil, nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return middleware.Chain(store, mw), closer, nil
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (ports.RunStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverNone, "":
		return nil, nopCloser{}, nil

	case config.DriverMemory:
		return memory.NewStore(), nopCloser{}, nil

	case config.DriverRedis:
		var opts []redis.Option
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		if cfg.RedisPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.RedisPrefix))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, store, nil

	case config.DriverSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, store, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
