package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/testforge/pomgen/internal/analyzer"
	"github.com/testforge/pomgen/internal/api/handlers"
	"github.com/testforge/pomgen/internal/api/middleware"
	"github.com/testforge/pomgen/internal/observability"
	rediscache "github.com/testforge/pomgen/internal/repository/redis"
	"github.com/testforge/pomgen/pkg/httputil"
)

// Router holds the HTTP router and its dependencies
type Router struct {
	chi.Router
	logger *zap.Logger
}

// RouterConfig contains configuration for the router
type RouterConfig struct {
	Analyzer       analyzer.Config
	AnalyzerOpts   []analyzer.Option
	Cache          *rediscache.Cache
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	// Base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Handler)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Handler)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.HTTPMiddleware)
	}
	r.Use(chimw.Timeout(timeout))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health and metrics endpoints
	r.Get("/healthz", healthHandler(cfg.Cache))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		analyzeHandler := handlers.NewAnalyzeHandler(cfg.Analyzer, cfg.Logger, cfg.AnalyzerOpts...)
		r.Post("/analyze", analyzeHandler.Run)
	})

	return &Router{
		Router: r,
		logger: cfg.Logger,
	}
}

// healthHandler reports service health, including Redis when configured
func healthHandler(cache *rediscache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		healthy := true

		if cache != nil {
			if err := cache.Health(r.Context()); err != nil {
				checks["redis"] = "unhealthy: " + err.Error()
				healthy = false
			} else {
				checks["redis"] = "healthy"
			}
		}

		status := http.StatusOK
		statusText := "healthy"
		if !healthy {
			status = http.StatusServiceUnavailable
			statusText = "unhealthy"
		}

		httputil.JSON(w, status, map[string]any{
			"status":  statusText,
			"service": "pomgen-api",
			"checks":  checks,
		})
	}
}
