package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/match"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/request"
	"github.com/kailas-cloud/coursesearch/internal/domain/vocab"
	"github.com/kailas-cloud/coursesearch/internal/logger"
	"github.com/kailas-cloud/coursesearch/internal/metrics"
)

// DefaultMaxBatchSize is the maximum number of searches per batch request.
const DefaultMaxBatchSize = 50

// Response is the outcome of one search. Entries is never nil.
type Response struct {
	Keywords query.Keywords
	Entries  []course.Entry
}

// BatchResult holds one batch item: either a response or an error.
type BatchResult struct {
	Response Response
	Err      error
}

// Service evaluates course searches against the active catalog snapshot.
type Service struct {
	catalog      CatalogReader
	norm         Normalizer
	vocab        vocab.Vocabulary
	pool         *ants.Pool
	maxBatchSize int
}

// New creates a search service.
func New(catalog CatalogReader, norm Normalizer, v vocab.Vocabulary) *Service {
	return &Service{catalog: catalog, norm: norm, vocab: v, maxBatchSize: DefaultMaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// WithPool runs batch items on pool. Without a pool batches run sequentially.
func (s *Service) WithPool(pool *ants.Pool) *Service {
	s.pool = pool
	return s
}

// MaxBatchSize returns the configured batch limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Search normalizes the query, takes one catalog snapshot and matches it.
// A search that matches nothing succeeds with empty Entries; a search that
// cannot be evaluated fails with domain.ErrSearchUnavailable.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	m := string(req.Mode())
	if err := ctx.Err(); err != nil {
		metrics.ObserveSearchFailure(m, metrics.OutcomeUnavailable)
		return Response{}, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		metrics.ObserveSearchFailure(m, metrics.OutcomeUnavailable)
		return Response{}, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	start := time.Now()
	keywords := s.norm.Normalize(req.Query())
	entries := snap.Index().Match(match.Criteria{
		Keywords: keywords,
		Codes:    req.Codes(),
		HubUnits: req.HubUnits(),
		Mode:     req.Mode(),
	})
	elapsed := time.Since(start)

	metrics.ObserveSearch(m, len(keywords), len(entries), elapsed)
	logger.FromContext(ctx).Debug("search evaluated",
		zap.String("mode", m),
		zap.Strings("keywords", keywords),
		zap.Int("codes", len(req.Codes())),
		zap.Int("hub_units", len(req.HubUnits())),
		zap.Int("results", len(entries)),
		zap.Int("catalog_size", snap.Len()),
		zap.Duration("elapsed", elapsed),
	)

	return Response{Keywords: keywords, Entries: entries}, nil
}

// SearchBatch evaluates independent searches in parallel. Results keep
// request order and each carries its own error.
func (s *Service) SearchBatch(ctx context.Context, reqs []request.Request) ([]BatchResult, error) {
	if len(reqs) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d searches (max %d)", domain.ErrBatchTooLarge, len(reqs), s.maxBatchSize)
	}

	results := make([]BatchResult, len(reqs))
	var wg sync.WaitGroup
	for i := range reqs {
		run := func() {
			defer wg.Done()
			resp, err := s.Search(ctx, &reqs[i])
			results[i] = BatchResult{Response: resp, Err: err}
		}
		wg.Add(1)
		if s.pool == nil {
			run()
			continue
		}
		if err := s.pool.Submit(run); err != nil {
			run()
		}
	}
	wg.Wait()
	return results, nil
}

// Normalize exposes the query normalizer so clients can show or transmit
// the keyword form.
func (s *Service) Normalize(raw string) query.Keywords {
	return s.norm.Normalize(raw)
}

// Vocabulary returns the controlled vocabularies.
func (s *Service) Vocabulary() vocab.Vocabulary {
	return s.vocab
}
