package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/domain"
)

// Error codes returned in {code, message} bodies.
const (
	codeInvalidRequest     = "invalid_request"
	codeBatchTooLarge      = "batch_too_large"
	codeSearchUnavailable  = "search_unavailable"
	codeCatalogUnavailable = "catalog_unavailable"
	codeReadOnlyCatalog    = "read_only_catalog"
	codeNotFound           = "not_found"
	codeMethodNotAllowed   = "method_not_allowed"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponseJSON{Code: code, Message: message})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Field errors describe the caller's own input and are returned verbatim.
func safeDomainMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrBatchTooLarge,
		domain.ErrSearchUnavailable,
		domain.ErrCatalogUnavailable,
		domain.ErrReadOnlyCatalog,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// errorCode maps err to its wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return codeInvalidRequest
	case errors.Is(err, domain.ErrBatchTooLarge):
		return codeBatchTooLarge
	case errors.Is(err, domain.ErrSearchUnavailable):
		return codeSearchUnavailable
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return codeCatalogUnavailable
	case errors.Is(err, domain.ErrReadOnlyCatalog):
		return codeReadOnlyCatalog
	default:
		return codeInternalError
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
