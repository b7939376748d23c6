package main

import (
	"github.com/turtacn/jazzy-go/internal/config"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jazzy-go/internal/infrastructure/toolkit"
)

func newToolkitClient(cfg config.ToolkitConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*toolkit.Client, error) {
	return toolkit.NewClient(cfg.BaseURL, cfg.APIKey,
		toolkit.WithTimeout(cfg.Timeout),
		toolkit.WithRetryMax(cfg.RetryMax),
		toolkit.WithRetryWait(cfg.RetryWaitMin, cfg.RetryWaitMax),
		toolkit.WithLogger(logger),
		toolkit.WithMetrics(metrics),
	)
}

// newMetrics returns a nil collector and nil metrics when metrics are
// disabled.
func newMetrics(cfg config.MetricsConfig, logger logging.Logger) (prometheus.MetricsCollector, *prometheus.AppMetrics, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Namespace,
		Subsystem:            cfg.Subsystem,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return collector, prometheus.NewAppMetrics(collector), nil
}

// watchLogLevel applies log level changes from configPath without a
// restart.  Other settings take effect on the next start.
func watchLogLevel(configPath string, logger logging.Logger) {
	if configPath == "" {
		return
	}
	config.Watch(configPath, func(cfg *config.Config) {
		if err := logging.SetLevel(logger, cfg.Log.Level); err != nil {
			logger.Warn("ignoring reloaded log level", logging.Err(err))
			return
		}
		logger.Info("configuration reloaded", logging.String("log_level", cfg.Log.Level))
	}, func(err error) {
		logger.Warn("configuration reload failed", logging.Err(err))
	})
}

//Personal.AI order the ending
