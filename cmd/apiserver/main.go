// Command apiserver serves the descriptor pipeline over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/config"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/toolkit"
	httpserver "github.com/turtacn/jazzy-go/internal/interfaces/http"
	"github.com/turtacn/jazzy-go/internal/interfaces/http/handlers"
	"github.com/turtacn/jazzy-go/internal/interfaces/http/middleware"
)

const serviceName = "jazzy-apiserver"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: JAZZY_* environment)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(cfg.Log.LoggingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	watchLogLevel(*configPath, logger)
	if err := run(cfg, logger); err != nil {
		logger.Error("API server terminated", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	gin.SetMode(cfg.Server.Mode)
	logger.Info("starting jazzy API server",
		logging.String("version", toolkit.Version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("toolkit", cfg.Toolkit.BaseURL))

	collector, metrics, err := newMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}
	client, err := newToolkitClient(cfg.Toolkit, logger, metrics)
	if err != nil {
		return err
	}
	svc, err := appdesc.NewService(client, client, cfg.Descriptor.ServiceConfig(), logger, metrics)
	if err != nil {
		return err
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		cors.AllowedOrigins = cfg.Server.CORSOrigins
	}
	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.RequestsPerSecond = cfg.Server.RateLimitRPS
	rateLimit.BurstSize = cfg.Server.RateLimitBurst

	router := httpserver.NewRouter(httpserver.RouterConfig{
		DescriptorHandler: handlers.NewDescriptorHandler(svc, handlers.DescriptorHandlerConfig{
			MaxBatchItems:       cfg.Server.MaxBatchItems,
			DefaultMinimisation: cfg.Descriptor.MinimisationMethod,
		}, logger),
		MoleculeHandler:   handlers.NewMoleculeHandler(svc, cfg.Descriptor.ChargeMethod, cfg.Descriptor.MinimisationMethod),
		HealthHandler:     handlers.NewHealthHandler(serviceName, toolkit.Version, metrics, handlers.CheckFunc{ComponentName: "toolkit", Fn: client.Ping}),
		Auth:             middleware.AuthConfig{APIKeys: cfg.Server.APIKeys},
		CORS:             cors,
		RateLimit:        rateLimit,
		Logging:          middleware.DefaultLoggingConfig(),
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logger:           logger,
		MetricsCollector: collector,
		AppMetrics:       metrics,
		MetricsPath:      cfg.Metrics.Path,
	})

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:         cfg.Server.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

//Personal.AI order the ending
