package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a malformed or missing request field.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSearchUnavailable signals that a search could not be evaluated.
	// It is never used for a search that legitimately matched nothing.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrCatalogUnavailable signals that no catalog snapshot could be served.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrInvalidEntry signals a catalog entry that violates the data model.
	ErrInvalidEntry = errors.New("invalid course entry")
	// ErrBatchTooLarge signals a batch above the configured limit.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrReadOnlyCatalog signals a catalog source that cannot be written.
	ErrReadOnlyCatalog = errors.New("catalog source is read-only")
)

// FieldError wraps ErrInvalidRequest with the offending request field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequest.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidRequest }

// NewFieldError creates an invalid request error for a single field.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
