package coursesearch

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/coursesearch/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"

	// Catalog describes the active catalog; nil until one is loaded.
	Catalog *CatalogInfo
}

// CatalogInfo describes the catalog the client is searching.
type CatalogInfo struct {
	Courses  int
	LoadedAt time.Time
	// Version is the store's change marker at load time. Empty for stores
	// without one (sqlite, postgres, badger, WithCourses).
	Version string
}

// Health reports whether a catalog is loaded and its store is reachable.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	hs := HealthStatus{Status: string(report.Status), Checks: checks}
	if snap, err := c.catalogSvc.Snapshot(ctx); err == nil {
		hs.Catalog = &CatalogInfo{
			Courses:  snap.Len(),
			LoadedAt: snap.LoadedAt(),
			Version:  snap.Version(),
		}
	}
	return hs
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
