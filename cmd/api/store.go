package main

import (
	"context"
	"fmt"

	"github.com/locallink/locallink-backend/pkg/blobstore"
	"github.com/locallink/locallink-backend/pkg/config"
	"github.com/locallink/locallink-backend/pkg/db"
	"github.com/locallink/locallink-backend/pkg/logger"
	"github.com/locallink/locallink-backend/pkg/migrate"
	"github.com/locallink/locallink-backend/pkg/redis"
)

// openBlobStore builds the store selected by LOCALLINK_PERSISTENCE_DRIVER.
// The returned close func is always safe to call.
func openBlobStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client) (blobstore.Store, func(), error) {
	noop := func() {}

	switch cfg.Persistence.Driver {
	case config.DriverMemory:
		if cfg.App.IsProd() {
			return nil, noop, fmt.Errorf("memory persistence is not allowed in %s", cfg.App.Env)
		}
		logg.Warn(ctx, "memory blob store selected, state is lost on restart")
		return blobstore.NewMemory(), noop, nil

	case config.DriverRedis:
		if redisClient == nil {
			return nil, noop, fmt.Errorf("redis driver selected without redis configuration")
		}
		store, err := blobstore.NewRedis(redisClient)
		return store, noop, err

	case config.DriverSQLite, config.DriverPostgres:
		dbClient, err := db.New(ctx, cfg.Persistence.Driver, cfg.DB, logg)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap database: %w", err)
		}
		closeDB := func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		if err := migrate.MaybeAutoRun(ctx, cfg, logg, dbClient); err != nil {
			closeDB()
			return nil, noop, err
		}
		store, err := blobstore.NewSQL(dbClient)
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return store, closeDB, nil
	}

	return nil, noop, fmt.Errorf("unsupported persistence driver %q", cfg.Persistence.Driver)
}
