// Package kv stores the whole catalog as one JSON value in Redis or Valkey.
// A single transaction replaces the catalog and bumps its generation, so
// readers never see a partial write and can skip reloading an unchanged one.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/coursesearch/internal/db"
	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) (int64, error)
	Generation(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
}

// Repo implements the catalog source and writer over a key-value store.
type Repo struct {
	store store
	key   string
}

// New creates a catalog repository reading and writing key.
func New(s store, key string) *Repo {
	return &Repo{store: s, key: key}
}

// Load reads the catalog. A missing key means nothing was imported yet.
func (r *Repo) Load(ctx context.Context) ([]course.Record, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: key %s not found", domain.ErrCatalogUnavailable, r.key)
		}
		return nil, fmt.Errorf("get catalog %s: %w", r.key, err)
	}
	return catalog.DecodeJSON(data)
}

// Replace overwrites the catalog with entries.
func (r *Repo) Replace(ctx context.Context, entries []course.Entry) error {
	data, err := catalog.EncodeJSON(entries)
	if err != nil {
		return err
	}
	if _, err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("put catalog %s: %w", r.key, err)
	}
	return nil
}

// Version returns the write generation of the catalog key.
func (r *Repo) Version(ctx context.Context) (string, error) {
	gen, err := r.store.Generation(ctx, r.key)
	if err != nil {
		return "", fmt.Errorf("catalog %s generation: %w", r.key, err)
	}
	return strconv.FormatInt(gen, 10), nil
}

// Ping checks the underlying store.
func (r *Repo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
