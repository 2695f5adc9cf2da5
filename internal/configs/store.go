package config

import (
	"context"
	"log"

	"activity-tracker.com/activity-tracker/internal/store"
)

// NewStore opens the key/value backend selected by STORE_DRIVER. The
// returned close function releases the backend's connections.
func NewStore(ctx context.Context, cfg Config) (store.KeyValueStore, func()) {
	switch cfg.StoreDriver {
	case DriverRedis:
		client := NewRedisClient(cfg.RedisAddr)
		return store.NewRedisStore(client, cfg.RedisKeyPrefix), client.Close
	case DriverDynamoDB:
		client := NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
		return store.NewDynamoDBStore(client, cfg.DynamoDBTable), func() {}
	default:
		db := NewDatabaseClient(cfg.DatabaseDSN)
		return store.NewSQLStore(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Printf("failed to close database: %v", err)
				}
			}
		}
	}
}
