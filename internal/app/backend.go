package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"milkledger/internal/config"
	"milkledger/internal/infrastructure/lock/redislock"
	"milkledger/internal/infrastructure/storage/memory"
	"milkledger/internal/infrastructure/storage/postgres"
	"milkledger/pkg/logger"
)

// Pinger reports backend availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend is a wired Container plus the resources it holds open.
type Backend struct {
	*Container

	Store     Pinger
	StoreName string

	closers []func()
}

// Close releases connections in reverse order of opening.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Open selects the storage and lock backends from cfg and wires the services.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	b := &Backend{}
	opts := Options{MassUOM: cfg.MassUOM, VolumeUOM: cfg.VolumeUOM}

	var repos Repositories
	if cfg.UsesMemory() {
		store := memory.New()
		repos = MemoryRepositories(store)
		b.Store, b.StoreName = store, "memory"
		logger.Warn(ctx, "DATABASE_URL not set, using in-memory store")
	} else {
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		if cfg.DBMaxConns > 0 {
			poolCfg.MaxConns = int32(cfg.DBMaxConns)
		}
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		txm := postgres.NewTxManager(pool)
		if err := postgres.Migrate(ctx, txm); err != nil {
			b.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		repos, err = PostgresRepositories(txm)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Store, b.StoreName = txm, "database"
		pool.LogStats(ctx)
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		opts.Locker = redislock.New(rdb, cfg.LockTTL)
		logger.Info(ctx, "posting locks backed by redis", "addr", cfg.RedisAddr, "ttl", cfg.LockTTL)
	}

	b.Container = New(repos, opts)
	return b, nil
}
