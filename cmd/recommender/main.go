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

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/config"
	dbRedis "github.com/kailas-cloud/recommender/internal/db/redis"
	"github.com/kailas-cloud/recommender/internal/domain"
	domsignal "github.com/kailas-cloud/recommender/internal/domain/signal"
	logpkg "github.com/kailas-cloud/recommender/internal/logger"
	"github.com/kailas-cloud/recommender/internal/metrics"
	"github.com/kailas-cloud/recommender/internal/repository/catalog"
	"github.com/kailas-cloud/recommender/internal/repository/signalcache"
	chiTransport "github.com/kailas-cloud/recommender/internal/transport/chi"
	"github.com/kailas-cloud/recommender/internal/transport/gemini"
	openaiTransport "github.com/kailas-cloud/recommender/internal/transport/openai"
	"github.com/kailas-cloud/recommender/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/recommender/internal/usecase/health"
	oracleuc "github.com/kailas-cloud/recommender/internal/usecase/oracle"
	"github.com/kailas-cloud/recommender/internal/usecase/rank"
	"github.com/kailas-cloud/recommender/internal/usecase/recommend"
	"github.com/kailas-cloud/recommender/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, logpkg.Options{
		Level:   cfg.Logging.Level,
		Service: "recommender",
		Version: version.Version,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	if err := run(env, cfg, logger); err != nil {
		logger.Error("Server failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run wires the service and blocks until a shutdown signal or a server error.
// Every resource opened here is released by its defer before run returns.
func run(env string, cfg config.Config, logger *zap.Logger) error {
	logger.Info("Starting recommender API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("oracle_provider", cfg.Oracle.Provider),
		zap.String("oracle_model", cfg.Oracle.Model),
		zap.String("ranking_mode", cfg.Ranking.Mode),
		zap.Int("ranking_budget_sec", cfg.Ranking.BudgetSec),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	// Register oracle metrics explicitly (no init())
	metrics.RegisterOracleMetrics()

	// Optional signal cache
	var store *dbRedis.Store
	if cfg.Cache.Enabled {
		var err error
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return fmt.Errorf("create cache store: %w", err)
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	oracle, oracleHealth, err := buildOracle(ctx, cfg, store, logger)
	if err != nil {
		return fmt.Errorf("create oracle: %w", err)
	}
	vectorizer := buildVectorizer(cfg, store, logger)

	// Use cases
	catalogStore := catalog.New(cfg.Catalog.Path)
	ranker := rank.New(oracle, vectorizer).
		WithLimit(cfg.Ranking.MaxResults).
		WithBudget(time.Duration(cfg.Ranking.BudgetSec) * time.Second)
	recommendSvc := recommend.New(catalogStore, ranker)

	// Pass nil interface (not typed nil pointer!) when no dataset is configured.
	var dataset evaluation.Dataset
	if cfg.Evaluation.DatasetPath != "" {
		dataset = evaluation.NewFileDataset(cfg.Evaluation.DatasetPath)
	}
	evalSvc := evaluation.New(dataset, recommendSvc).
		WithCacheTTL(time.Duration(cfg.Evaluation.CacheTTLSec) * time.Second)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(catalogStore, oracleHealth, cachePinger)

	server := chiTransport.NewServer(recommendSvc, evalSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:        cfg.Auth.APIKeys,
		Logger:         logger,
		ProtectMetrics: dataset != nil,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// buildOracle assembles the decorator chain: provider -> Instrumented -> Cached.
// The cache is outermost so hits do not count as upstream calls.
func buildOracle(
	ctx context.Context, cfg config.Config, store *dbRedis.Store, logger *zap.Logger,
) (domain.Oracle, healthuc.Checker, error) {
	timeout := time.Duration(cfg.Oracle.TimeoutSec) * time.Second

	var base domain.Oracle
	switch cfg.Oracle.Provider {
	case config.ProviderGemini:
		g, err := gemini.NewOracle(ctx, &gemini.Config{
			APIKey:  cfg.Oracle.APIKey,
			Model:   cfg.Oracle.Model,
			Timeout: timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("gemini oracle: %w", err)
		}
		base = g
	case config.ProviderOpenAI:
		base = openaiTransport.NewOracle(&openaiTransport.Config{
			APIKey:   cfg.Oracle.APIKey,
			BaseURL:  cfg.Oracle.BaseURL,
			Model:    cfg.Oracle.Model,
			Provider: config.ProviderOpenAI,
			Timeout:  timeout,
			Logger:   logger,
		})
	default:
		return nil, nil, fmt.Errorf("unknown oracle provider %q", cfg.Oracle.Provider)
	}

	instrumented := oracleuc.NewInstrumentedOracle(base, cfg.Oracle.Provider, cfg.Oracle.Model)
	if store == nil {
		return instrumented, instrumented, nil
	}
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	namespace := cfg.Oracle.Provider + ":" + cfg.Oracle.Model
	cached := signalcache.NewOracle(instrumented, store, namespace, ttl, metrics.SignalCacheTotal, logger)
	return cached, instrumented, nil
}

// buildVectorizer picks the signal vectorizer for the configured ranking mode.
// Embedding vectors are cached per embedding model when the cache is enabled.
func buildVectorizer(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) domain.Vectorizer {
	if cfg.Ranking.Mode == config.RankingLiteral {
		return domsignal.NewLiteralVectorizer()
	}

	base := openaiTransport.NewVectorizer(&openaiTransport.Config{
		APIKey:     cfg.Ranking.EmbeddingAPIKey,
		BaseURL:    cfg.Ranking.EmbeddingBaseURL,
		Model:      cfg.Ranking.EmbeddingModel,
		Dimensions: cfg.Ranking.EmbeddingDimensions,
		Provider:   config.ProviderOpenAI,
		Timeout:    time.Duration(cfg.Oracle.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	if store == nil {
		return base
	}
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	namespace := fmt.Sprintf("%s:%d", cfg.Ranking.EmbeddingModel, cfg.Ranking.EmbeddingDimensions)
	return signalcache.NewVectorizer(base, store, namespace, ttl, metrics.SignalCacheTotal, logger)
}
