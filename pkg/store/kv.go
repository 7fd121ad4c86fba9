// Package store is the key-namespaced persistence layer of rpager.
//
// Each entity kind is kept under one key as a JSON envelope holding the whole
// collection. Mutations read the full collection, transform it in memory and
// write it back with a compare-and-set on the stored version, so concurrent
// writers (several CLI processes, the MCP server) never silently lose updates.
package store

import (
	"context"
	"time"
)

// Entry is a raw stored value with its concurrency token.
type Entry struct {
	Key       string
	Value     []byte
	Version   int64
	UpdatedAt time.Time
}

// KV is the host key-value store. Implementations must make Put atomic.
type KV interface {
	// Get returns ErrKeyNotFound if key was never written.
	Get(ctx context.Context, key string) (Entry, error)

	// Put stores value if the current version equals expectedVersion
	// (0 means the key must not exist) and returns the new version.
	// On mismatch it returns ErrVersionConflict and writes nothing.
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}
