// Package config defines the configuration structures for the jazzy-go
// services.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/domain/charge"
	domainDesc "github.com/turtacn/jazzy-go/internal/domain/descriptor"
	"github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	MaxBatchItems   int           `mapstructure:"max_batch_items"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Empty APIKeys disables authentication.
	APIKeys        []string `mapstructure:"api_keys"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"` // 0 disables
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ToolkitConfig locates the cheminformatics sidecar.
type ToolkitConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
}

// DescriptorConfig tunes the descriptor pipeline.
type DescriptorConfig struct {
	Precision          int     `mapstructure:"precision"`
	AcceptorWeight     float64 `mapstructure:"acceptor_weight"`
	DonorWeight        float64 `mapstructure:"donor_weight"`
	StericCutoff       float64 `mapstructure:"steric_cutoff"`
	ChargeMethod       string  `mapstructure:"charge_method"`
	MinimisationMethod string  `mapstructure:"minimisation_method"`
	BatchConcurrency   int     `mapstructure:"batch_concurrency"`
}

// ServiceConfig converts the section into the application service config.
func (d DescriptorConfig) ServiceConfig() appdesc.Config {
	return appdesc.Config{
		Options: domainDesc.Options{
			Precision:      d.Precision,
			AcceptorWeight: d.AcceptorWeight,
			DonorWeight:    d.DonorWeight,
			StericCutoff:   d.StericCutoff,
		},
		DefaultChargeMethod: charge.Method(d.ChargeMethod),
		BatchConcurrency:    d.BatchConcurrency,
	}
}

// KafkaConfig holds the worker's consumer and producer parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	RequestTopic    string        `mapstructure:"request_topic"`
	ResultTopic     string        `mapstructure:"result_topic"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	AutoOffsetReset string        `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	SASLEnabled     bool          `mapstructure:"sasl_enabled"`
	SASLMechanism   string        `mapstructure:"sasl_mechanism"`
	SASLUsername    string        `mapstructure:"sasl_username"`
	SASLPassword    string        `mapstructure:"sasl_password"`
	TLSEnabled      bool          `mapstructure:"tls_enabled"`
	TLSCertPath     string        `mapstructure:"tls_cert_path"`
	CreateTopics    bool          `mapstructure:"create_topics"`
}

// WorkerConfig holds background-worker execution parameters.
type WorkerConfig struct {
	Concurrency    int           `mapstructure:"concurrency"`
	ProcessTimeout time.Duration `mapstructure:"process_timeout"`
	MetricsAddr    string        `mapstructure:"metrics_addr"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	Path      string `mapstructure:"path"`
}

// Security returns the SASL/TLS settings shared by readers and writers.
func (k KafkaConfig) Security() kafka.SecurityConfig {
	return kafka.SecurityConfig{
		SASLEnabled:   k.SASLEnabled,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
		TLSEnabled:    k.TLSEnabled,
		TLSCertPath:   k.TLSCertPath,
	}
}

// ProducerConfig converts the section into a kafka.ProducerConfig.
func (k KafkaConfig) ProducerConfig() kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:      k.Brokers,
		Acks:         "all",
		BatchTimeout: k.BatchTimeout,
		Security:     k.Security(),
	}
}

// ConsumerConfig converts the section into a kafka.ConsumerConfig reading
// the request topic with dead-lettering.
func (k KafkaConfig) ConsumerConfig() kafka.ConsumerConfig {
	return kafka.ConsumerConfig{
		Brokers:         k.Brokers,
		GroupID:         k.GroupID,
		Topics:          []string{k.RequestTopic},
		AutoOffsetReset: k.AutoOffsetReset,
		Security:        k.Security(),
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      k.MaxRetries,
			RetryBackoff:    k.RetryBackoff,
			DeadLetterTopic: k.DeadLetterTopic,
		},
	}
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// LoggingConfig converts the section into a logging.LogConfig.
func (l LogConfig) LoggingConfig() logging.LogConfig {
	return logging.LogConfig{Level: l.Level, Format: l.Format, OutputPaths: l.OutputPaths}
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration shared by the API server, the worker and
// the CLI.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Toolkit    ToolkitConfig    `mapstructure:"toolkit"`
	Descriptor DescriptorConfig `mapstructure:"descriptor"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxBatchItems < 1 {
		return fmt.Errorf("config: server.max_batch_items must be ≥ 1, got %d", c.Server.MaxBatchItems)
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("config: server.rate_limit_rps and server.rate_limit_burst must be ≥ 0")
	}

	// Toolkit
	if c.Toolkit.BaseURL == "" {
		return fmt.Errorf("config: toolkit.base_url is required")
	}
	if c.Toolkit.RetryMax < 0 {
		return fmt.Errorf("config: toolkit.retry_max must be ≥ 0, got %d", c.Toolkit.RetryMax)
	}

	// Descriptor
	if err := c.Descriptor.ServiceConfig().Options.Validate(); err != nil {
		return fmt.Errorf("config: descriptor: %w", err)
	}
	if !charge.Method(c.Descriptor.ChargeMethod).IsValid() {
		return fmt.Errorf("config: descriptor.charge_method %q is invalid; expected kallisto|MMFF94", c.Descriptor.ChargeMethod)
	}
	if _, err := molecule.ParseMinimisationMethod(c.Descriptor.MinimisationMethod); err != nil {
		return fmt.Errorf("config: descriptor.minimisation_method %q is invalid; expected none|MMFF94", c.Descriptor.MinimisationMethod)
	}
	if c.Descriptor.BatchConcurrency < 1 {
		return fmt.Errorf("config: descriptor.batch_concurrency must be ≥ 1, got %d", c.Descriptor.BatchConcurrency)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}
	if c.Kafka.RequestTopic == "" || c.Kafka.ResultTopic == "" {
		return fmt.Errorf("config: kafka.request_topic and kafka.result_topic are required")
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be ≥ 1, got %d", c.Worker.Concurrency)
	}

	// Log
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
