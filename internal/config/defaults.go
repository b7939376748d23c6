package config

import (
	"math"
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultMaxBodySize     = 1 << 20
	DefaultMaxBatchItems   = 100
	DefaultShutdownTimeout = 15 * time.Second

	DefaultToolkitURL     = "http://localhost:8000"
	DefaultToolkitTimeout = 30 * time.Second
	DefaultToolkitRetries = 3

	DefaultPrecision          = 4
	DefaultStericCutoff       = 4.0
	DefaultChargeMethod       = "kallisto"
	DefaultMinimisationMethod = "MMFF94"
	DefaultBatchConcurrency   = 4

	DefaultKafkaBroker     = "localhost:9092"
	DefaultKafkaGroupID    = "jazzy-worker"
	DefaultRequestTopic    = "jazzy.descriptor.requests"
	DefaultResultTopic     = "jazzy.descriptor.results"
	DefaultDeadLetterTopic = "jazzy.descriptor.requests.dlq"

	DefaultWorkerConcurrency = 4
	DefaultProcessTimeout    = 2 * time.Minute
	DefaultWorkerMetricsAddr = ":9091"

	DefaultMetricsNamespace = "jazzy"
	DefaultMetricsPath      = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Descriptor.Precision = DefaultPrecision
	cfg.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with the default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 2 * time.Minute
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.MaxBatchItems == 0 {
		cfg.Server.MaxBatchItems = DefaultMaxBatchItems
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = int(math.Ceil(cfg.Server.RateLimitRPS))
	}

	// ── Toolkit ───────────────────────────────────────────────────────────────
	if cfg.Toolkit.BaseURL == "" {
		cfg.Toolkit.BaseURL = DefaultToolkitURL
	}
	if cfg.Toolkit.Timeout == 0 {
		cfg.Toolkit.Timeout = DefaultToolkitTimeout
	}
	if cfg.Toolkit.RetryMax == 0 {
		cfg.Toolkit.RetryMax = DefaultToolkitRetries
	}
	if cfg.Toolkit.RetryWaitMin == 0 {
		cfg.Toolkit.RetryWaitMin = 200 * time.Millisecond
	}
	if cfg.Toolkit.RetryWaitMax == 0 {
		cfg.Toolkit.RetryWaitMax = 5 * time.Second
	}

	// ── Descriptor ────────────────────────────────────────────────────────────
	// Precision 0 is a valid explicit value (round to integers), so it is
	// defaulted through viper instead.
	if cfg.Descriptor.AcceptorWeight == 0 {
		cfg.Descriptor.AcceptorWeight = 1.0
	}
	if cfg.Descriptor.DonorWeight == 0 {
		cfg.Descriptor.DonorWeight = 1.0
	}
	if cfg.Descriptor.StericCutoff == 0 {
		cfg.Descriptor.StericCutoff = DefaultStericCutoff
	}
	if cfg.Descriptor.ChargeMethod == "" {
		cfg.Descriptor.ChargeMethod = DefaultChargeMethod
	}
	if cfg.Descriptor.MinimisationMethod == "" {
		cfg.Descriptor.MinimisationMethod = DefaultMinimisationMethod
	}
	if cfg.Descriptor.BatchConcurrency == 0 {
		cfg.Descriptor.BatchConcurrency = DefaultBatchConcurrency
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultRequestTopic
	}
	if cfg.Kafka.ResultTopic == "" {
		cfg.Kafka.ResultTopic = DefaultResultTopic
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultDeadLetterTopic
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}
	if cfg.Kafka.RetryBackoff == 0 {
		cfg.Kafka.RetryBackoff = time.Second
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 100 * time.Millisecond
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.ProcessTimeout == 0 {
		cfg.Worker.ProcessTimeout = DefaultProcessTimeout
	}
	if cfg.Worker.MetricsAddr == "" {
		cfg.Worker.MetricsAddr = DefaultWorkerMetricsAddr
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// registerDefaults seeds v with the keys that ApplyDefaults cannot infer
// and with every section key, so that JAZZY_* variables are seen by
// Unmarshal even without a config file.
func registerDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_body_size", d.Server.MaxBodySize)
	v.SetDefault("server.max_batch_items", d.Server.MaxBatchItems)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.rate_limit_rps", 0.0)
	v.SetDefault("server.rate_limit_burst", 0)

	v.SetDefault("toolkit.base_url", d.Toolkit.BaseURL)
	v.SetDefault("toolkit.api_key", "")
	v.SetDefault("toolkit.timeout", d.Toolkit.Timeout)
	v.SetDefault("toolkit.retry_max", d.Toolkit.RetryMax)
	v.SetDefault("toolkit.retry_wait_min", d.Toolkit.RetryWaitMin)
	v.SetDefault("toolkit.retry_wait_max", d.Toolkit.RetryWaitMax)

	v.SetDefault("descriptor.precision", d.Descriptor.Precision)
	v.SetDefault("descriptor.acceptor_weight", d.Descriptor.AcceptorWeight)
	v.SetDefault("descriptor.donor_weight", d.Descriptor.DonorWeight)
	v.SetDefault("descriptor.steric_cutoff", d.Descriptor.StericCutoff)
	v.SetDefault("descriptor.charge_method", d.Descriptor.ChargeMethod)
	v.SetDefault("descriptor.minimisation_method", d.Descriptor.MinimisationMethod)
	v.SetDefault("descriptor.batch_concurrency", d.Descriptor.BatchConcurrency)

	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.group_id", d.Kafka.GroupID)
	v.SetDefault("kafka.request_topic", d.Kafka.RequestTopic)
	v.SetDefault("kafka.result_topic", d.Kafka.ResultTopic)
	v.SetDefault("kafka.dead_letter_topic", d.Kafka.DeadLetterTopic)
	v.SetDefault("kafka.auto_offset_reset", d.Kafka.AutoOffsetReset)
	v.SetDefault("kafka.max_retries", d.Kafka.MaxRetries)
	v.SetDefault("kafka.retry_backoff", d.Kafka.RetryBackoff)
	v.SetDefault("kafka.batch_timeout", d.Kafka.BatchTimeout)
	v.SetDefault("kafka.sasl_enabled", false)
	v.SetDefault("kafka.sasl_mechanism", "")
	v.SetDefault("kafka.sasl_username", "")
	v.SetDefault("kafka.sasl_password", "")
	v.SetDefault("kafka.tls_enabled", false)
	v.SetDefault("kafka.tls_cert_path", "")
	v.SetDefault("kafka.create_topics", false)

	v.SetDefault("worker.concurrency", d.Worker.Concurrency)
	v.SetDefault("worker.process_timeout", d.Worker.ProcessTimeout)
	v.SetDefault("worker.metrics_addr", d.Worker.MetricsAddr)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.subsystem", "")
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

//Personal.AI order the ending
