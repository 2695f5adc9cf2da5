package config

import (
	"log"

	"github.com/redis/rueidis"
)

// NewRedisClient connects to the Redis backing the key/value store, with
// client side caching disabled.
func NewRedisClient(addr string) rueidis.Client {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		ClientName:   "activity-tracker",
		DisableCache: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", addr, err)
	}

	return client
}
