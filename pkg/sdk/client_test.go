package coursesearch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/coursesearch/internal/config"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog/store"
)

func credits(f float64) *float64 { return &f }

func testCourses() []Course {
	return []Course{
		{Title: "The Holocaust", Code: "HI", Description: "Survivor testimony and the politics of memory.",
			HubUnits: []string{"HUB Historical Consciousness", "HUB Ethical Reasoning"}, Credits: credits(4)},
		{Title: "Signals", Code: "EE", Description: "Convolution and the Fourier transform.",
			HubUnits: []string{"HUB Quantitative Reasoning I"}, Prerequisites: "CAS MA 124"},
		{Title: "History of Science", Code: "HI", Description: "Fourier, Holocaust memory and modern physics.",
			HubUnits: []string{"HUB Historical Consciousness"}},
		{Title: "Web Development", Code: "CS", Description: "Full-stack web applications."},
	}
}

func newStaticClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithCourses(testCourses()...)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func titles(cs []Course) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Title
	}
	return out
}

func TestNew_NoSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no catalog source provided")
	}
}

func TestNew_InvalidMatching(t *testing.T) {
	_, err := New(context.Background(), WithCourses(testCourses()...), WithThreshold(150))
	if err == nil {
		t.Fatal("expected error for threshold above 100")
	}
}

func TestSearch_Broad(t *testing.T) {
	c := newStaticClient(t)

	res, err := c.Search().Query("I want to learn about the Holocaust").Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(res.Courses); len(got) != 2 || got[0] != "The Holocaust" || got[1] != "History of Science" {
		t.Errorf("courses = %v", got)
	}
	if len(res.Keywords) != 1 || res.Keywords[0] != "holocaust" {
		t.Errorf("keywords = %v", res.Keywords)
	}
}

func TestSearch_HonedWithHubUnit(t *testing.T) {
	c := newStaticClient(t)

	res, err := c.Search().
		Query("holocaust,fourier,transform").
		HubUnits("HUB Historical Consciousness").
		Honed().
		Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 keywords need 3 hits at 70%; no course has all of them.
	if len(res.Courses) != 0 || res.Courses == nil {
		t.Errorf("courses = %#v, want empty non-nil", res.Courses)
	}

	res, err = c.Search().Query("holocaust fourier").HubUnits("HUB Historical Consciousness").Honed().Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(res.Courses); len(got) != 1 || got[0] != "History of Science" {
		t.Errorf("courses = %v", got)
	}
}

func TestSearch_CodesAndFields(t *testing.T) {
	c := newStaticClient(t)

	res, err := c.Search().Codes("EE").Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Courses) != 1 {
		t.Fatalf("courses = %v", titles(res.Courses))
	}
	got := res.Courses[0]
	if got.Prerequisites != "CAS MA 124" || got.Credits != nil {
		t.Errorf("course = %+v", got)
	}
}

func TestSearch_UnknownHubUnitDroppedAtLoad(t *testing.T) {
	c, err := New(context.Background(), WithCourses(Course{
		Title: "Odd", Code: "CS", Description: "x", HubUnits: []string{"HUB Nonexistent"},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	res, err := c.Search().Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Courses) != 1 || len(res.Courses[0].HubUnits) != 0 || res.Courses[0].HubUnits == nil {
		t.Errorf("courses = %+v", res.Courses)
	}
}

func TestSearch_InvalidMode(t *testing.T) {
	c := newStaticClient(t)
	_, err := c.Search().Mode("fuzzy").Do(context.Background())
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSearch_SubstringAndSnowball(t *testing.T) {
	c := newStaticClient(t, WithSubstringMatch(), WithSnowball())

	res, err := c.Search().Query("applications").Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := titles(res.Courses); len(got) != 1 || got[0] != "Web Development" {
		t.Errorf("courses = %v", got)
	}
	if got := c.Normalize("studies study"); len(got) != 1 || got[0] != "studies" {
		t.Errorf("Normalize() = %v", got)
	}
}

func TestSearchBatch(t *testing.T) {
	c := newStaticClient(t, WithWorkers(2), WithMaxBatchSize(3))

	out, err := c.SearchBatch(context.Background(),
		c.Search().Query("fourier"),
		c.Search().Mode("bogus"),
		c.Search().Codes("CS"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out[0].Result.Courses) != 2 || out[0].Err != nil {
		t.Errorf("item 0 = %+v", out[0])
	}
	if !errors.Is(out[1].Err, ErrInvalidRequest) {
		t.Errorf("item 1 err = %v", out[1].Err)
	}
	if got := titles(out[2].Result.Courses); len(got) != 1 || got[0] != "Web Development" {
		t.Errorf("item 2 = %v", got)
	}

	_, err = c.SearchBatch(context.Background(),
		c.Search(), c.Search(), c.Search(), c.Search())
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestImport_StaticIsReadOnly(t *testing.T) {
	c := newStaticClient(t)
	_, err := c.Import(context.Background(), testCourses())
	if !errors.Is(err, ErrReadOnlyCatalog) {
		t.Fatalf("expected ErrReadOnlyCatalog, got %v", err)
	}
}

func TestImport_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "courses.db")

	// An empty table loads as an empty catalog.
	c, err := New(ctx, WithSQLite(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	rep, err := c.Import(ctx, append(testCourses(), Course{Title: "Bad", Code: "ZZ", Description: "x"}))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rep.Loaded != 4 || rep.Skipped["unknown_code"] != 1 {
		t.Errorf("report = %+v", rep)
	}

	res, err := c.Search().Query("fourier").Do(ctx)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Courses) != 2 {
		t.Errorf("courses = %v", titles(res.Courses))
	}
	h := c.Health(ctx)
	if h.Status != "ok" || h.Catalog == nil || h.Catalog.Courses != 4 {
		t.Errorf("health = %+v", h)
	}
	if err := c.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestWatch_PicksUpImportFromAnotherClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "courses.yaml")

	seed := newFileClient(t, path, testCourses()[:1])

	reader, err := New(ctx, WithFile(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer reader.Close()
	if h := reader.Health(ctx); h.Catalog == nil || h.Catalog.Version == "" {
		t.Fatalf("file catalog should carry a version, got %+v", h.Catalog)
	}

	done := make(chan error, 1)
	go func() { done <- reader.Watch(ctx, 10*time.Millisecond) }()

	if _, err := seed.Import(ctx, testCourses()); err != nil {
		t.Fatalf("Import: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		res, err := reader.Search().Do(ctx)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(res.Courses) == 4 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("watch never reloaded, still %d courses", len(res.Courses))
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

// newFileClient writes courses to path and returns a client over it.
func newFileClient(t *testing.T, path string, courses []Course) *Client {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, config.CatalogConfig{Driver: config.DriverFile, Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := wireClient(s, defaultClientConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Close)
	if _, err := c.Import(ctx, courses); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	return c
}

func TestVocabularyOverride(t *testing.T) {
	c := newStaticClient(t, WithVocabulary([]string{"fourier"}, nil, []string{}))

	if got := c.Normalize("Fourier transform"); len(got) != 1 || got[0] != "transform" {
		t.Errorf("Normalize() = %v", got)
	}
	if len(c.Codes()) != 0 {
		t.Errorf("Codes() = %v", c.Codes())
	}
	if len(c.HubUnits()) == 0 {
		t.Error("nil hub-unit override should keep the built-in list")
	}
}

func TestHealth(t *testing.T) {
	c := newStaticClient(t)
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["catalog"] != "ok" {
		t.Errorf("health = %+v", h)
	}
	if h.Catalog == nil || h.Catalog.Courses != 4 || h.Catalog.LoadedAt.IsZero() || h.Catalog.Version != "" {
		t.Errorf("catalog = %+v", h.Catalog)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := defaultClientConfig()

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.catalog.Driver != config.DriverValkey {
		t.Errorf("driver = %q, want valkey", cfg.catalog.Driver)
	}
	if cfg.catalog.Addrs[0] != "localhost:6379" || cfg.catalog.Password != "secret" {
		t.Errorf("catalog = %+v", cfg.catalog)
	}

	WithTable("catalog_v2").apply(cfg)
	if cfg.catalog.Key != "catalog_v2" || cfg.catalog.Table != "catalog_v2" {
		t.Errorf("table/key = %q/%q", cfg.catalog.Table, cfg.catalog.Key)
	}

	WithBadger("").apply(cfg)
	if cfg.catalog.Driver != config.DriverBadger || !cfg.catalog.InMemory {
		t.Errorf("catalog = %+v", cfg.catalog)
	}

	WithThreshold(50).apply(cfg)
	WithFoldPlurals().apply(cfg)
	WithUnicodeFold().apply(cfg)
	if cfg.matching.HonedThresholdPercent != 50 || !cfg.matching.FoldPlurals || !cfg.matching.FoldUnicode {
		t.Errorf("matching = %+v", cfg.matching)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_MetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newStaticClient(t, WithPrometheus(reg))

	if _, err := c.Search().Query("fourier").Do(context.Background()); err != nil {
		t.Fatalf("search: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	want := map[string]bool{
		"coursesearch_sdk_operations_total": false,
		"coursesearch_sdk_search_results":   false,
		"coursesearch_sdk_catalog_courses":  false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s not found", name)
		}
	}
}

func TestObserver_NilSafe(t *testing.T) {
	// nil observer should not panic.
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
	obs.observeResults(ModeBroad, 3)
	obs.observeCatalog(4)
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
	obs.observe("search", time.Now(), nil)
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil, "courses", 3)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}
