package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/coursesearch/internal/config"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/match"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/coursesearch/internal/logger"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog/store"
	chiTransport "github.com/kailas-cloud/coursesearch/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/coursesearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/coursesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/coursesearch/internal/usecase/search"
	"github.com/kailas-cloud/coursesearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting coursesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_driver", cfg.Catalog.Driver),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	voc, err := config.LoadVocabulary(cfg.Vocabulary.Path)
	if err != nil {
		return err //nolint:wrapcheck // names the file
	}
	policy, err := cfg.Matching.Policy()
	if err != nil {
		return fmt.Errorf("matching policy: %w", err)
	}
	normOpts, err := cfg.Matching.NormalizerOptions()
	if err != nil {
		return fmt.Errorf("normalizer: %w", err)
	}

	// Catalog store based on driver
	catalogStore, err := store.Open(ctx, cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer catalogStore.Close()

	catalogSvc := cataloguc.New(catalogStore, voc, match.New(policy), logger.Named("catalog"))
	rep, err := catalogSvc.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}
	logger.Info("Catalog loaded",
		zap.Int("entries", rep.Loaded),
		zap.Int("skipped", rep.SkippedTotal()),
		zap.Int("trimmed", rep.Trimmed),
	)

	pool, err := ants.NewPool(cfg.Search.PoolSize)
	if err != nil {
		return fmt.Errorf("create search pool: %w", err)
	}
	defer pool.Release()

	searchSvc := searchuc.New(catalogSvc, query.NewNormalizer(voc, normOpts...), voc).
		WithMaxBatchSize(cfg.Search.MaxBatchSize).
		WithPool(pool)
	healthSvc := healthuc.New(catalogSvc, catalogStore)

	server := chiTransport.NewServer(searchSvc, catalogSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return catalogSvc.Run(gctx, cfg.Catalog.RefreshInterval())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
		return nil
	})

	return g.Wait() //nolint:wrapcheck // members wrap their own errors
}
