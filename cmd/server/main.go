package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/testforge/pomgen/internal/analyzer"
	"github.com/testforge/pomgen/internal/api"
	"github.com/testforge/pomgen/internal/config"
	"github.com/testforge/pomgen/internal/observability"
	rediscache "github.com/testforge/pomgen/internal/repository/redis"
	"github.com/testforge/pomgen/internal/storage"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.IsProduction(), cfg.GetLogLevel())
	defer logger.Sync()

	logger.Info("Starting pomgen API",
		zap.String("environment", string(cfg.Env)),
		zap.Float64("minSimilarity", cfg.Analyzer.MinSimilarity),
	)

	metrics := observability.NewMetrics("pomgen")

	var opts []analyzer.Option
	opts = append(opts, analyzer.WithMetrics(metrics))

	// Connect to Redis (optional)
	var cache *rediscache.Cache
	if cfg.Redis.Enabled {
		cache, err = rediscache.New(cfg.Redis)
		if err != nil {
			logger.Warn("Failed to connect to Redis, element caching disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
			logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
			opts = append(opts, analyzer.WithCache(cache))
		}
	}

	// Connect to MinIO (optional)
	if cfg.Storage.Enabled {
		store, err := storage.NewMinIOClient(cfg.Storage)
		if err != nil {
			logger.Warn("Failed to create storage client, artifact uploads disabled", zap.Error(err))
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := store.EnsureBucket(ctx); err != nil {
				logger.Warn("Failed to ensure bucket, artifact uploads disabled", zap.Error(err))
			} else {
				logger.Info("Connected to object storage",
					zap.String("endpoint", cfg.Storage.Endpoint),
					zap.String("bucket", cfg.Storage.Bucket),
				)
				opts = append(opts, analyzer.WithStorage(store))
			}
			cancel()
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Analyzer:       cfg.ToAnalyzer(),
		AnalyzerOpts:   opts,
		Cache:          cache,
		Metrics:        metrics,
		Logger:         logger,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RequestTimeout: cfg.Server.WriteTimeout,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("addr", cfg.Server.Addr()))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("Server error", zap.Error(err))

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed, forcing close", zap.Error(err))
			server.Close()
		}

		logger.Info("Server stopped gracefully")
	}
}

// initLogger creates a configured zap logger
func initLogger(production bool, level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var config zap.Config
	if production {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}
