// Package http assembles the gin engine and HTTP server of the descriptor API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jazzy-go/internal/interfaces/http/handlers"
	"github.com/turtacn/jazzy-go/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware settings of the route
// tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	DescriptorHandler *handlers.DescriptorHandler
	MoleculeHandler   *handlers.MoleculeHandler
	HealthHandler     *handlers.HealthHandler

	Auth        middleware.AuthConfig
	CORS        middleware.CORSConfig
	RateLimit   middleware.RateLimitConfig
	Logging     middleware.LoggingConfig
	MaxBodySize int64

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics
	MetricsPath      string
}

// NewRouter builds the engine.  Global middleware runs in the order
// recovery, request ID, metrics, logging, CORS, rate limit; /api/v1 adds
// API key authentication and the body cap.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Metrics(cfg.AppMetrics),
		middleware.RequestLogging(logger, cfg.Logging),
		middleware.CORS(cfg.CORS),
		middleware.RateLimit(cfg.RateLimit),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1", middleware.APIKeyAuth(cfg.Auth, logger), middleware.BodyLimit(cfg.MaxBodySize))
	if cfg.DescriptorHandler != nil {
		cfg.DescriptorHandler.RegisterRoutes(api)
	}
	if cfg.MoleculeHandler != nil {
		cfg.MoleculeHandler.RegisterRoutes(api)
	}
	return r
}

//Personal.AI order the ending
