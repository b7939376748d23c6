// Command worker consumes descriptor requests from Kafka and publishes the
// computed atomic maps to the result topic.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/config"
	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/toolkit"
	httpserver "github.com/turtacn/jazzy-go/internal/interfaces/http"
	"github.com/turtacn/jazzy-go/internal/interfaces/http/handlers"
	"github.com/turtacn/jazzy-go/internal/interfaces/worker"
)

const serviceName = "jazzy-worker"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: JAZZY_* environment)")
	workers := flag.Int("workers", 0, "number of consumers in the group (overrides config)")
	replication := flag.Int("replication", 1, "replication factor used when creating topics")
	flag.Parse()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Worker.Concurrency = *workers
	}

	logger, err := logging.NewLogger(cfg.Log.LoggingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	watchLogLevel(*configPath, logger)
	if err := run(cfg, *replication, logger); err != nil {
		logger.Error("worker terminated", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, replication int, logger logging.Logger) error {
	logger.Info("starting jazzy worker",
		logging.String("version", toolkit.Version),
		logging.Int("concurrency", cfg.Worker.Concurrency),
		logging.String("request_topic", cfg.Kafka.RequestTopic),
		logging.String("result_topic", cfg.Kafka.ResultTopic))

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.CreateTopics {
		if err := ensureTopics(ctx, cfg.Kafka, replication, logger); err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(cfg.Kafka.ProducerConfig(), logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	handler, err := worker.NewHandler(svc, producer, worker.Config{
		ResultTopic:    cfg.Kafka.ResultTopic,
		ProcessTimeout: cfg.Worker.ProcessTimeout,
	}, logger)
	if err != nil {
		return err
	}

	factory := func() (worker.Consumer, error) {
		return kafka.NewConsumer(cfg.Kafka.ConsumerConfig(), logger, metrics)
	}
	pool, err := worker.NewPool(cfg.Worker.Concurrency, cfg.Kafka.RequestTopic, handler.Handle, factory, logger)
	if err != nil {
		return err
	}
	if err := pool.Start(ctx); err != nil {
		return err
	}

	probe := httpserver.NewServer(httpserver.ServerConfig{Addr: cfg.Worker.MetricsAddr},
		httpserver.NewRouter(httpserver.RouterConfig{
			HealthHandler:    handlers.NewHealthHandler(serviceName, toolkit.Version, metrics, handlers.CheckFunc{ComponentName: "toolkit", Fn: client.Ping}),
			Logger:           logger,
			MetricsCollector: collector,
			MetricsPath:      cfg.Metrics.Path,
		}), logger)
	errCh := make(chan error, 1)
	go func() { errCh <- probe.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case runErr = <-errCh:
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	stats := pool.Stats()
	cancel()
	if err := pool.Close(); err != nil {
		logger.Warn("failed to close consumers", logging.Err(err))
	}
	logger.Info("worker stopped",
		logging.Int64("processed", stats.MessagesProcessed),
		logging.Int64("dead_lettered", stats.MessagesDeadLettered))

	shutdownCtx, stop := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
	defer stop()
	if err := probe.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, replication int, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return tm.EnsureTopics(ctx, kafka.DescriptorTopics(cfg.RequestTopic, cfg.ResultTopic, cfg.DeadLetterTopic, replication))
}

//Personal.AI order the ending
