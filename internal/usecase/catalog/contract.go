package catalog

import (
	"context"

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
)

// Source loads the raw catalog from a store.
type Source interface {
	Load(ctx context.Context) ([]course.Record, error)
}

// Writer replaces the stored catalog.
type Writer interface {
	Replace(ctx context.Context, entries []course.Entry) error
}

// Pinger checks store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Versioner reports a marker that changes whenever the stored catalog
// does. An empty marker means unknown.
type Versioner interface {
	Version(ctx context.Context) (string, error)
}
