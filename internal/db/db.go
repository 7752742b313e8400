package db

import (
	"context"
	"time"
)

// Store keeps the catalog as a single versioned blob.
// Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	BlobStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BlobStore reads and replaces whole values. Every Put bumps a per-key
// generation counter in the same transaction, so a reader can tell whether
// a value changed without fetching it.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) (generation int64, err error)
	Generation(ctx context.Context, key string) (int64, error)
}

// GenerationKey names the counter tracking writes to key.
func GenerationKey(key string) string { return key + ":generation" }
