package coursesearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/config"
	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/match"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/request"
	"github.com/kailas-cloud/coursesearch/internal/domain/vocab"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog/store"
	cataloguc "github.com/kailas-cloud/coursesearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/coursesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/coursesearch/internal/usecase/search"
)

// Internal interfaces, replaceable in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Response, error)
	SearchBatch(ctx context.Context, reqs []request.Request) ([]searchuc.BatchResult, error)
	Normalize(raw string) query.Keywords
	Vocabulary() vocab.Vocabulary
}

type catalogUseCase interface {
	Refresh(ctx context.Context) (cataloguc.Report, error)
	Snapshot(ctx context.Context) (*cataloguc.Snapshot, error)
	Run(ctx context.Context, interval time.Duration) error
}

type catalogStore interface {
	cataloguc.Source
	cataloguc.Writer
	Ping(ctx context.Context) error
	Close()
}

// Client is the course search SDK entry point.
type Client struct {
	store      catalogStore
	vocab      vocab.Vocabulary
	catalogSvc catalogUseCase
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	pool       *ants.Pool
	obs        *observer
}

// New creates a Client and loads the catalog once. The provided context is
// used for connecting and the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if !cfg.static && cfg.catalog.Driver == "" {
		return nil, errors.New("coursesearch: catalog source required (use WithFile, WithSQLite, WithRedis, ... or WithCourses)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	obs.driver = "static"
	if !cfg.static {
		obs.driver = cfg.catalog.Driver
	}

	var s catalogStore
	if cfg.static {
		s = newStaticStore(cfg.courses)
	} else {
		s, err = openStore(ctx, cfg.catalog)
		if err != nil {
			return nil, err
		}
	}

	c, err := wireClient(s, cfg, obs)
	if err != nil {
		s.Close()
		return nil, err
	}
	if _, err := c.Refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func openStore(ctx context.Context, cc config.CatalogConfig) (catalogStore, error) {
	cc.ApplyDefaults()
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("coursesearch: %w", err)
	}
	s, err := store.Open(ctx, cc, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("coursesearch: %w", err)
	}
	return s, nil
}

func buildVocabulary(cfg *clientConfig) vocab.Vocabulary {
	def := config.DefaultVocabulary()
	if cfg.vocabulary == nil {
		return def
	}
	pick := func(override, builtin []string) []string {
		if override == nil {
			return builtin
		}
		return override
	}
	return vocab.New(
		pick(cfg.vocabulary.stopwords, def.Stopwords()),
		pick(cfg.vocabulary.hubUnits, def.HubUnits()),
		pick(cfg.vocabulary.codes, def.Codes()),
	)
}

func wireClient(s catalogStore, cfg *clientConfig, obs *observer) (*Client, error) {
	policy, err := cfg.matching.Policy()
	if err != nil {
		return nil, fmt.Errorf("coursesearch: %w", err)
	}
	normOpts, err := cfg.matching.NormalizerOptions()
	if err != nil {
		return nil, fmt.Errorf("coursesearch: %w", err)
	}

	v := buildVocabulary(cfg)
	catalogSvc := cataloguc.New(s, v, match.New(policy), nil)
	searchSvc := searchuc.New(catalogSvc, query.NewNormalizer(v, normOpts...), v)
	if cfg.maxBatchSize > 0 {
		searchSvc = searchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	var pool *ants.Pool
	if cfg.workers > 0 {
		pool, err = ants.NewPool(cfg.workers)
		if err != nil {
			return nil, fmt.Errorf("coursesearch: create worker pool: %w", err)
		}
		searchSvc = searchSvc.WithPool(pool)
	}

	return &Client{
		store:      s,
		vocab:      v,
		catalogSvc: catalogSvc,
		searchSvc:  searchSvc,
		healthSvc:  healthuc.New(catalogSvc, s),
		pool:       pool,
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Release()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks catalog store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Refresh reloads the catalog from its store. On failure the previously
// loaded catalog keeps serving.
func (c *Client) Refresh(ctx context.Context) (rep ImportReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("catalog.refresh", start, err, "courses", rep.Loaded) }()

	r, err := c.catalogSvc.Refresh(ctx)
	if err != nil {
		return ImportReport{}, fmt.Errorf("refresh: %w", err)
	}
	c.obs.observeCatalog(r.Loaded)
	return importReport(r), nil
}

// Watch reloads the catalog every interval when its store reports a change,
// until ctx is done. Stores without a change marker reload on every tick.
// It blocks; run it in its own goroutine.
func (c *Client) Watch(ctx context.Context, interval time.Duration) error {
	if err := c.catalogSvc.Run(ctx, interval); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// Import validates courses against the vocabulary, replaces the stored
// catalog with them and reloads it.
func (c *Client) Import(ctx context.Context, courses []Course) (rep ImportReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("catalog.import", start, err, "courses", rep.Loaded) }()

	r, err := cataloguc.Import(ctx, newStaticStore(courses), c.store, c.vocab, nil)
	if err != nil {
		return ImportReport{}, fmt.Errorf("import: %w", err)
	}
	if _, err := c.catalogSvc.Refresh(ctx); err != nil {
		return importReport(r), fmt.Errorf("import: reload: %w", err)
	}
	c.obs.observeCatalog(r.Loaded)
	return importReport(r), nil
}

// Normalize returns the keyword form of a free-text query.
func (c *Client) Normalize(raw string) []string {
	kw := c.searchSvc.Normalize(raw)
	out := make([]string, len(kw))
	copy(out, kw)
	return out
}

// HubUnits lists the valid Hub units.
func (c *Client) HubUnits() []string { return c.searchSvc.Vocabulary().HubUnits() }

// Codes lists the valid subject codes.
func (c *Client) Codes() []string { return c.searchSvc.Vocabulary().Codes() }

// Search starts a fluent search.
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c, mode: ModeBroad}
}

// SearchBatch runs independent searches, in parallel when WithWorkers is
// set. Results keep input order; each carries its own error.
func (c *Client) SearchBatch(ctx context.Context, searches ...*SearchBuilder) (out []BatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.batch", start, err, "searches", len(searches)) }()

	out = make([]BatchResult, len(searches))
	reqs := make([]request.Request, 0, len(searches))
	positions := make([]int, 0, len(searches))
	for i, b := range searches {
		req, err := b.request()
		if err != nil {
			out[i] = BatchResult{Err: err}
			continue
		}
		reqs = append(reqs, req)
		positions = append(positions, i)
	}

	results, err := c.searchSvc.SearchBatch(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("search batch: %w", err)
	}
	for j, r := range results {
		i := positions[j]
		if r.Err != nil {
			out[i] = BatchResult{Err: r.Err}
			continue
		}
		out[i] = BatchResult{Result: resultFromResponse(r.Response)}
		c.obs.observeResults(searches[i].mode, len(r.Response.Entries))
	}
	return out, nil
}

func resultFromResponse(resp searchuc.Response) Result {
	kw := make([]string, len(resp.Keywords))
	copy(kw, resp.Keywords)
	return Result{Keywords: kw, Courses: coursesFromEntries(resp.Entries)}
}

func importReport(r cataloguc.Report) ImportReport {
	return ImportReport{Loaded: r.Loaded, Skipped: r.Skipped, Trimmed: r.Trimmed}
}

// staticStore serves a fixed catalog held in memory.
type staticStore struct {
	records []course.Record
}

func newStaticStore(courses []Course) *staticStore {
	return &staticStore{records: records(courses)}
}

func (s *staticStore) Load(_ context.Context) ([]course.Record, error) {
	return s.records, nil
}

func (s *staticStore) Replace(_ context.Context, _ []course.Entry) error {
	return domain.ErrReadOnlyCatalog
}

func (s *staticStore) Ping(_ context.Context) error { return nil }

func (s *staticStore) Close() {}
