package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/coursesearch/internal/logger"
	"github.com/kailas-cloud/coursesearch/internal/version"
	cataloguc "github.com/kailas-cloud/coursesearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/coursesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/coursesearch/internal/usecase/search"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// CatalogRefresher reloads the catalog snapshot on demand.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (cataloguc.Report, error)
}

// Server serves the course search HTTP API.
type Server struct {
	search        *searchuc.Service
	catalog       CatalogRefresher
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. catalog can be nil, which disables
// POST /api/catalog/refresh.
func NewServer(
	search *searchuc.Service,
	catalog CatalogRefresher,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:  search,
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeInvalidRequest),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusRequestEntityTooLarge, codeBatchTooLarge),
		sentinelHandler(domain.ErrSearchUnavailable, http.StatusServiceUnavailable, codeSearchUnavailable),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, codeCatalogUnavailable),
		sentinelHandler(domain.ErrReadOnlyCatalog, http.StatusConflict, codeReadOnlyCatalog),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/api/courses", s.ListCourses)
	r.Post("/api/search", s.Search)
	r.Post("/api/search/batch", s.SearchBatch)
	r.Get("/api/normalize", s.Normalize)
	r.Get("/api/vocabulary", s.Vocabulary)
	r.Post("/api/catalog/refresh", s.RefreshCatalog)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListCourses handles GET /api/courses. It accepts the comma-joined form the
// browser client sends and answers with a bare JSON array.
func (s *Server) ListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := request.FromWire(q.Get("query"), q.Get("hub_units"), q.Get("codes"), q.Get("search_mode"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	annotateSearch(r, &req, resp)

	writeJSON(w, http.StatusOK, coursesToJSON(resp.Entries))
}

// Search handles POST /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body searchRequestJSON
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := body.toRequest()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	annotateSearch(r, &req, resp)

	writeJSON(w, http.StatusOK, searchResponseToJSON(resp))
}

// SearchBatch handles POST /api/search/batch. Items are evaluated
// independently; a bad item fails alone.
func (s *Server) SearchBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequestJSON
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(body.Searches) == 0 {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "searches must not be empty")
		return
	}
	if len(body.Searches) > s.search.MaxBatchSize() {
		s.handleDomainError(w, fmt.Errorf("%w: %d searches (max %d)",
			domain.ErrBatchTooLarge, len(body.Searches), s.search.MaxBatchSize()))
		return
	}

	items := make([]batchItemJSON, len(body.Searches))
	valid := make([]request.Request, 0, len(body.Searches))
	positions := make([]int, 0, len(body.Searches))
	for i := range body.Searches {
		req, err := body.Searches[i].toRequest()
		if err != nil {
			items[i] = batchErrorItem(err)
			continue
		}
		valid = append(valid, req)
		positions = append(positions, i)
	}

	results, err := s.search.SearchBatch(r.Context(), valid)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	for j, res := range results {
		i := positions[j]
		if res.Err != nil {
			s.logger.Warn("batch item failed", zap.Int("index", i), zap.Error(res.Err))
			items[i] = batchErrorItem(res.Err)
			continue
		}
		ok := searchResponseToJSON(res.Response)
		items[i] = batchItemJSON{Status: batchStatusOK, Result: &ok}
	}
	failed := 0
	for i := range items {
		if items[i].Status != batchStatusOK {
			failed++
		}
	}
	logpkg.AddEventFields(r.Context(),
		zap.Int("batch_size", len(items)),
		zap.Int("batch_failed", failed),
	)

	writeJSON(w, http.StatusOK, batchResponseJSON{Results: items})
}

// Normalize handles GET /api/normalize.
func (s *Server) Normalize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	if len(raw) > request.MaxQueryLength {
		s.handleDomainError(w, domain.NewFieldError("q", fmt.Sprintf("too long (max %d bytes)", request.MaxQueryLength)))
		return
	}

	kw := s.search.Normalize(raw)
	writeJSON(w, http.StatusOK, normalizeResponseJSON{Keywords: []string(kw), Query: kw.String()})
}

// Vocabulary handles GET /api/vocabulary.
func (s *Server) Vocabulary(w http.ResponseWriter, _ *http.Request) {
	v := s.search.Vocabulary()
	writeJSON(w, http.StatusOK, vocabularyResponseJSON{
		HubUnits: nonNil(v.HubUnits()),
		Codes:    nonNil(v.Codes()),
		Modes:    []string{string(mode.Broad), string(mode.Honed)},
	})
}

// RefreshCatalog handles POST /api/catalog/refresh.
func (s *Server) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "catalog refresh is disabled")
		return
	}

	rep, err := s.catalog.Refresh(r.Context())
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err))
		return
	}

	writeJSON(w, http.StatusOK, refreshResponseJSON{
		Loaded:  rep.Loaded,
		Skipped: rep.SkippedTotal(),
		Reasons: rep.Skipped,
		Trimmed: rep.Trimmed,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponseJSON{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Get(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// annotateSearch adds the search outcome to the request's canonical log line.
func annotateSearch(r *http.Request, req *request.Request, resp searchuc.Response) {
	logpkg.AddEventFields(r.Context(),
		zap.String("search_mode", string(req.Mode())),
		zap.Int("keywords", len(resp.Keywords)),
		zap.Int("results", len(resp.Entries)),
	)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v) //nolint:wrapcheck // reported to the client as-is
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
