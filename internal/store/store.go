package store

import (
	"context"
	"errors"
)

// KeyValueStore persists opaque JSON documents by key. Set replaces the
// whole value; there are no partial writes.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte) error
}

var ErrKeyNotFound = errors.New("key not found")
