package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/match"
	"github.com/kailas-cloud/coursesearch/internal/domain/vocab"
	"github.com/kailas-cloud/coursesearch/internal/metrics"
)

// Snapshot is an immutable, indexed catalog version.
type Snapshot struct {
	index    *match.Index
	loadedAt time.Time
	report   Report
	version  string
}

// Index returns the precomputed match index.
func (s *Snapshot) Index() *match.Index { return s.index }

// Len returns the number of entries.
func (s *Snapshot) Len() int { return s.index.Len() }

// Entries returns the entries in catalog order.
func (s *Snapshot) Entries() []course.Entry { return s.index.Entries() }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Report returns the validation summary of the load.
func (s *Snapshot) Report() Report { return s.report }

// Version returns the store's change marker read before the load, or ""
// when the store has none.
func (s *Snapshot) Version() string { return s.version }

// Service owns the current catalog snapshot and refreshes it from a Source.
type Service struct {
	src     Source
	vocab   vocab.Vocabulary
	matcher match.Matcher
	log     *zap.Logger

	refreshMu sync.Mutex
	current   atomic.Pointer[Snapshot]
	now       func() time.Time
}

// New creates a catalog service. No snapshot exists until Refresh succeeds.
func New(src Source, v vocab.Vocabulary, m match.Matcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, vocab: v, matcher: m, log: log, now: time.Now}
}

// Refresh loads, validates and indexes the catalog, then swaps it in.
// On failure the previous snapshot stays active.
func (s *Service) Refresh(ctx context.Context) (Report, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx, s.sourceVersion(ctx))
}

func (s *Service) refreshLocked(ctx context.Context, version string) (Report, error) {
	records, err := s.src.Load(ctx)
	if err != nil {
		metrics.ObserveRefresh("error", 0)
		return Report{}, fmt.Errorf("load catalog: %w", err)
	}

	entries, rep := Validate(records, s.vocab, s.log)
	for reason, n := range rep.Skipped {
		metrics.ObserveSkipped(reason, n)
	}
	metrics.ObserveTrimmed(rep.Trimmed)

	snap := &Snapshot{
		index:    s.matcher.Index(entries),
		loadedAt: s.now(),
		report:   rep,
		version:  version,
	}
	s.current.Store(snap)
	metrics.ObserveRefresh(metrics.OutcomeOK, snap.Len())

	s.log.Info("catalog refreshed",
		zap.Int("entries", rep.Loaded),
		zap.Int("skipped", rep.SkippedTotal()),
		zap.Int("trimmed", rep.Trimmed),
	)
	return rep, nil
}

// RefreshIfChanged reloads only when the store's version moved since the
// active snapshot. Stores without a version always reload. It reports
// whether a reload happened.
func (s *Service) RefreshIfChanged(ctx context.Context) (bool, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	version := s.sourceVersion(ctx)
	if cur := s.current.Load(); cur != nil && version != "" && cur.version == version {
		s.log.Debug("catalog unchanged", zap.String("version", version))
		metrics.ObserveRefresh(metrics.OutcomeUnchanged, cur.Len())
		return false, nil
	}
	if _, err := s.refreshLocked(ctx, version); err != nil {
		return false, err
	}
	return true, nil
}

// sourceVersion reads the store's change marker. Errors are logged and
// treated as unknown so the catalog still reloads.
func (s *Service) sourceVersion(ctx context.Context) string {
	v, ok := s.src.(Versioner)
	if !ok {
		return ""
	}
	version, err := v.Version(ctx)
	if err != nil {
		s.log.Warn("catalog version unavailable", zap.Error(err))
		return ""
	}
	return version
}

// Snapshot returns the active snapshot. Callers should use one snapshot for
// a whole request.
func (s *Service) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, fmt.Errorf("%w: not loaded yet", domain.ErrCatalogUnavailable)
	}
	return snap, nil
}

// Loaded reports whether a snapshot is active.
func (s *Service) Loaded() bool {
	return s.current.Load() != nil
}

// Ping checks the source store when it supports it.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.src.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Run reloads the catalog every interval when its store reports a change,
// until ctx is done. Failures are logged and the last good snapshot keeps
// serving. A non-positive interval returns at once.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RefreshIfChanged(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				s.log.Error("catalog refresh failed", zap.Error(err))
			}
		}
	}
}

// Import copies the catalog from src to dst, validating it on the way.
func Import(ctx context.Context, src Source, dst Writer, v vocab.Vocabulary, log *zap.Logger) (Report, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load source catalog: %w", err)
	}
	entries, rep := Validate(records, v, log)
	if err := dst.Replace(ctx, entries); err != nil {
		return rep, fmt.Errorf("write destination catalog: %w", err)
	}
	return rep, nil
}
