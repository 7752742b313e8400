package coursesearch

import "github.com/kailas-cloud/coursesearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest     = domain.ErrInvalidRequest
	ErrSearchUnavailable  = domain.ErrSearchUnavailable
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
	ErrInvalidEntry       = domain.ErrInvalidEntry
	ErrBatchTooLarge      = domain.ErrBatchTooLarge
	ErrReadOnlyCatalog    = domain.ErrReadOnlyCatalog
)
