// Package http assembles the gin route tree and the HTTP server around it.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ClauseMatch/internal/interfaces/http/handlers"
	"github.com/turtacn/ClauseMatch/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered, which keeps
// partial wiring (e.g. search-only deployments) possible.
type RouterConfig struct {
	Search *handlers.SearchHandler
	Match  *handlers.MatchHandler
	Ingest *handlers.IngestHandler
	Corpus *handlers.CorpusHandler
	Health *handlers.HealthHandler

	Logger         logging.Logger
	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler
	CORS           middleware.CORSConfig
	Mode           string // "debug" | "release" | "test"
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(log, "/healthz", "/readyz", "/metrics"))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	{
		if cfg.Search != nil {
			api.POST("/search", cfg.Search.Search)
		}
		if cfg.Match != nil {
			api.POST("/match", cfg.Match.Match)
		}
		if cfg.Ingest != nil {
			api.POST("/ingest", cfg.Ingest.Ingest)
		}
		if cfg.Corpus != nil {
			api.GET("/contract-types", cfg.Corpus.ListContractTypes)
			api.GET("/chunks", cfg.Corpus.GetChunk)
		}
	}

	return r
}

//Personal.AI order the ending
