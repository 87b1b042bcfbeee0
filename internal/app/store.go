package app

import (
	"context"
	"fmt"

	"github.com/alrazi/medstock/internal/platform/cache"
	"github.com/alrazi/medstock/internal/platform/db"
	"github.com/alrazi/medstock/internal/store"
	"github.com/alrazi/medstock/internal/store/memstore"
	"github.com/alrazi/medstock/internal/store/pgstore"
	"github.com/alrazi/medstock/internal/store/redisstore"
	"github.com/alrazi/medstock/internal/store/sqlstore"
)

// OpenStore connects the backend named by cfg.StoreDriver. The returned
// store still needs Init.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	if cfg.StoreOpenTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.StoreOpenTimeout)
		defer cancel()
	}

	switch cfg.StoreDriver {
	case DriverMemory:
		return memstore.New(), nil
	case DriverSQLite:
		pool, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlstore.New(pool, sqlstore.SQLite), nil
	case DriverMySQL:
		pool, err := db.OpenMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return sqlstore.New(pool, sqlstore.MySQL), nil
	case DriverPostgres:
		pool, err := db.NewPostgres(ctx, cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		return pgstore.New(pool), nil
	case DriverRedis:
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return redisstore.New(client, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.StoreDriver)
	}
}
