package coursesearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/coursesearch/internal/config"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/match"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalog config.CatalogConfig
	courses []Course // static catalog, used when no store is configured
	static  bool

	vocabulary *vocabularyLists

	matching     config.MatchingConfig
	maxBatchSize int
	workers      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type vocabularyLists struct {
	stopwords, hubUnits, codes []string
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		matching: config.MatchingConfig{
			HonedThresholdPercent: match.DefaultThresholdPercent,
			KeywordMatch:          string(match.Token),
			Singularizer:          query.SingularizerTrailingS,
		},
	}
}

// WithFile loads the catalog from a YAML or JSON file.
func WithFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = config.CatalogConfig{Driver: config.DriverFile, Path: path}
	})
}

// WithSQLite loads the catalog from a SQLite database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = config.CatalogConfig{Driver: config.DriverSQLite, Path: path}
	})
}

// WithPostgres loads the catalog from a Postgres table.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = config.CatalogConfig{Driver: config.DriverPostgres, DSN: dsn}
	})
}

// WithValkey loads the catalog from a Valkey key.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = config.CatalogConfig{Driver: config.DriverValkey, Addrs: []string{addr}, Password: password}
	})
}

// WithRedis loads the catalog from a Redis key.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = config.CatalogConfig{Driver: config.DriverRedis, Addrs: []string{addr}, Password: password}
	})
}

// WithBadger loads the catalog from a BadgerDB directory.
// An empty dir opens an in-memory database.
func WithBadger(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = config.CatalogConfig{Driver: config.DriverBadger, Path: dir, InMemory: dir == ""}
	})
}

// WithTable sets the SQL table (postgres, sqlite) or key (redis, valkey)
// holding the catalog. Call it after the store option.
func WithTable(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog.Table = name
		c.catalog.Key = name
	})
}

// WithCourses serves a fixed in-memory catalog. Import on such a client
// fails with ErrReadOnlyCatalog.
func WithCourses(courses ...Course) Option {
	return optionFunc(func(c *clientConfig) {
		c.courses = append([]Course(nil), courses...)
		c.static = true
	})
}

// WithVocabulary replaces the built-in stopwords, hub units and codes.
// A nil list keeps the built-in one; an empty non-nil list disables
// catalog validation for that vocabulary.
func WithVocabulary(stopwords, hubUnits, codes []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vocabulary = &vocabularyLists{stopwords: stopwords, hubUnits: hubUnits, codes: codes}
	})
}

// WithThreshold sets the share of keywords, in percent, a course needs in
// honed mode. Default: 70.
func WithThreshold(percent int) Option {
	return optionFunc(func(c *clientConfig) {
		c.matching.HonedThresholdPercent = percent
	})
}

// WithSubstringMatch matches keywords anywhere in a description instead of
// as whole words.
func WithSubstringMatch() Option {
	return optionFunc(func(c *clientConfig) {
		c.matching.KeywordMatch = string(match.Substring)
	})
}

// WithSnowball folds plural and inflected query words with the Snowball
// English stemmer instead of stripping a trailing "s".
func WithSnowball() Option {
	return optionFunc(func(c *clientConfig) {
		c.matching.Singularizer = query.SingularizerSnowball
	})
}

// WithFoldPlurals lets a keyword match a description word with the same
// singular form.
func WithFoldPlurals() Option {
	return optionFunc(func(c *clientConfig) {
		c.matching.FoldPlurals = true
	})
}

// WithUnicodeFold applies NFKC folding to queries and descriptions.
func WithUnicodeFold() Option {
	return optionFunc(func(c *clientConfig) {
		c.matching.FoldUnicode = true
	})
}

// WithMaxBatchSize sets the maximum number of searches per batch.
// Default: 50.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithWorkers runs batch searches on a pool of n goroutines.
// Default: sequential.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
