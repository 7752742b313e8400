package search

import (
	"context"

	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
	"github.com/kailas-cloud/coursesearch/internal/usecase/catalog"
)

// CatalogReader hands out the active catalog snapshot.
type CatalogReader interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Normalizer turns raw query text into keywords.
type Normalizer interface {
	Normalize(raw string) query.Keywords
}
