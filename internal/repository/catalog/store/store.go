// Package store opens the catalog repository selected by configuration.
package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/config"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	dbRedis "github.com/kailas-cloud/coursesearch/internal/db/redis"
	badgerrepo "github.com/kailas-cloud/coursesearch/internal/repository/catalog/badger"
	filerepo "github.com/kailas-cloud/coursesearch/internal/repository/catalog/file"
	kvrepo "github.com/kailas-cloud/coursesearch/internal/repository/catalog/kv"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog/sqldb"
)

type repo interface {
	Load(ctx context.Context) ([]course.Record, error)
	Replace(ctx context.Context, entries []course.Entry) error
	Ping(ctx context.Context) error
}

// versioner is implemented by repositories that can report cheaply whether
// the catalog changed (file, redis, valkey).
type versioner interface {
	Version(ctx context.Context) (string, error)
}

// Store is an opened catalog repository of any driver.
type Store struct {
	driver string
	target string
	repo   repo
	close  func()
}

// Open connects to the catalog store described by cfg. Network stores are
// waited on for cfg.ReadinessTimeout before giving up.
func Open(ctx context.Context, cfg config.CatalogConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{driver: cfg.Driver, close: func() {}}

	switch cfg.Driver {
	case config.DriverFile:
		s.target = cfg.Path
		s.repo = filerepo.New(cfg.Path)
	case config.DriverRedis, config.DriverValkey:
		s.target = strings.Join(cfg.Addrs, ",")
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s store: %w", cfg.Driver, err)
		}
		if err := kv.WaitForReady(ctx, cfg.ReadinessTimeoutDuration()); err != nil {
			kv.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
		}
		s.repo = kvrepo.New(kv, cfg.Key)
		s.close = kv.Close
	case config.DriverPostgres, config.DriverSQLite:
		dsn := cfg.DSN
		if cfg.Driver == config.DriverSQLite {
			dsn = cfg.Path
			s.target = cfg.Path
		} else {
			s.target = cfg.Table
		}
		readyCtx, cancel := context.WithTimeout(ctx, cfg.ReadinessTimeoutDuration())
		defer cancel()
		r, err := sqldb.Open(readyCtx, cfg.Driver, dsn, cfg.Table)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s catalog: %w", cfg.Driver, err)
		}
		s.repo = r
		s.close = func() {
			if err := r.Close(); err != nil {
				log.Warn("closing catalog db", zap.Error(err))
			}
		}
	case config.DriverBadger:
		s.target = cfg.Path
		if cfg.InMemory {
			s.target = "memory"
		}
		r, err := badgerrepo.Open(cfg.Path, cfg.InMemory, log.Named("badger"))
		if err != nil {
			return nil, fmt.Errorf("failed to open badger catalog: %w", err)
		}
		s.repo = r
		s.close = func() {
			if err := r.Close(); err != nil {
				log.Warn("closing badger", zap.Error(err))
			}
		}
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}

	log.Info("catalog store opened", zap.String("driver", s.driver), zap.String("target", s.target))
	return s, nil
}

// ParseTarget reads a "driver:target" string such as "file:data/courses.yaml",
// "sqlite:catalog.db", "postgres:postgres://...", "redis:localhost:6379" or
// "badger:/var/lib/courses". The result has defaults applied and is validated.
func ParseTarget(arg string) (config.CatalogConfig, error) {
	driver, target, ok := strings.Cut(arg, ":")
	if !ok || target == "" {
		return config.CatalogConfig{}, fmt.Errorf("target %q must look like driver:target", arg)
	}

	cfg := config.CatalogConfig{Driver: driver}
	cfg.ApplyDefaults()
	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		cfg.Addrs = strings.Split(target, ",")
	case config.DriverPostgres:
		cfg.DSN = target
	case config.DriverBadger:
		if target == "memory" {
			cfg.InMemory = true
		} else {
			cfg.Path = target
		}
	default:
		cfg.Path = target
	}

	if err := cfg.Validate(); err != nil {
		return config.CatalogConfig{}, err //nolint:wrapcheck // already names the field
	}
	return cfg, nil
}

// Driver returns the configured driver name.
func (s *Store) Driver() string { return s.driver }

// Target describes where the catalog lives, for logs.
func (s *Store) Target() string { return s.target }

// Load reads the raw catalog.
func (s *Store) Load(ctx context.Context) ([]course.Record, error) {
	return s.repo.Load(ctx) //nolint:wrapcheck // repositories wrap their own errors
}

// Replace overwrites the stored catalog.
func (s *Store) Replace(ctx context.Context, entries []course.Entry) error {
	return s.repo.Replace(ctx, entries) //nolint:wrapcheck // repositories wrap their own errors
}

// Version returns a marker that changes whenever the stored catalog does.
// Drivers without one return "".
func (s *Store) Version(ctx context.Context) (string, error) {
	v, ok := s.repo.(versioner)
	if !ok {
		return "", nil
	}
	return v.Version(ctx) //nolint:wrapcheck // repositories wrap their own errors
}

// Ping checks store availability.
func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx) //nolint:wrapcheck // repositories wrap their own errors
}

// Close releases the underlying connection.
func (s *Store) Close() { s.close() }
