// Package backends opens the account store selected by configuration.
package backends

import (
	"context"
	"fmt"

	"github.com/bodegita/backend/internal/config"
	"github.com/bodegita/backend/internal/storage"
	"github.com/bodegita/backend/internal/storage/mongo"
	"github.com/bodegita/backend/internal/storage/postgres"
)

// Open connects to the configured driver, bounded by cfg.ConnectTimeout.
func Open(ctx context.Context, cfg config.StorageConfig) (storage.AccountStore, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	switch cfg.Driver {
	case config.DriverMongo:
		store, err := mongo.NewAccountStore(ctx, cfg.MongoURI, mongo.Options{
			Database:               cfg.MongoDatabase,
			ServerSelectionTimeout: cfg.ConnectTimeout,
			MaxPoolSize:            10,
			MinPoolSize:            1,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.NewAccountStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
