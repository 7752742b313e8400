package health

import "context"

// StorePinger checks catalog store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CatalogState reports whether a catalog snapshot is being served.
type CatalogState interface {
	Loaded() bool
}
