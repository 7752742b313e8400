package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates no catalog can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	CheckCatalog = "catalog"
	CheckStore   = "store"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogState
	store   StorePinger
}

// New creates a Service. store can be nil for in-memory catalogs.
func New(catalog CatalogState, store StorePinger) *Service {
	return &Service{catalog: catalog, store: store}
}

// Check runs health checks against all components. Without a loaded
// catalog the service is unhealthy; a failing store only degrades it,
// since the last snapshot keeps serving.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog.Loaded() {
		checks[CheckCatalog] = CheckOK
	} else {
		checks[CheckCatalog] = CheckError
	}

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			checks[CheckStore] = CheckError
		} else {
			checks[CheckStore] = CheckOK
		}
	}

	status := Healthy
	if checks[CheckCatalog] == CheckError {
		status = Unhealthy
	} else if checks[CheckStore] == CheckError {
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
