// Package prometheus registers the service metrics on a private registry and
// serves them in the OpenMetrics format.
package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// MetricsCollector registers labelled metrics and serves the registry.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

// Counter is satisfied by prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// Gauge is the part of prometheus.Gauge the pipeline sets.
type Gauge interface {
	Set(value float64)
}

// Histogram is satisfied by prometheus.Observer.
type Histogram interface {
	Observe(value float64)
}

// CounterVec hands out counters by label values.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// GaugeVec hands out gauges by label values.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// HistogramVec hands out histograms by label values.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// CollectorConfig names the metrics and selects the runtime collectors.
type CollectorConfig struct {
	Namespace            string
	Subsystem            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

type prometheusCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector on a fresh registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, errors.InvalidParam("metrics namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}
	return &prometheusCollector{
		registry:   registry,
		config:     cfg,
		logger:     logger,
		registered: make(map[string]prometheus.Collector),
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// register returns the collector already registered under name, or
// registers fresh.  A nil result means the metric is unusable and has been
// logged.
func (c *prometheusCollector) register(name, kind string, fresh prometheus.Collector) prometheus.Collector {
	c.mu.Lock()
	defer c.mu.Unlock()

	fqName := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, ok := c.registered[fqName]; ok {
		return existing
	}
	if err := c.registry.Register(fresh); err != nil {
		c.logger.Error("failed to register metric", logging.String("name", fqName), logging.String("type", kind), logging.Err(err))
		return nil
	}
	c.registered[fqName] = fresh
	return fresh
}

func (c *prometheusCollector) mismatch(name, kind string) {
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("type", kind))
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	opts := prometheus.CounterOpts{Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name, Help: help}
	got := c.register(name, "counter", prometheus.NewCounterVec(opts, labels))
	if v, ok := got.(*prometheus.CounterVec); ok {
		return counterVec{v}
	}
	if got != nil {
		c.mismatch(name, "counter")
	}
	return noopVec[Counter]{}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	opts := prometheus.GaugeOpts{Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name, Help: help}
	got := c.register(name, "gauge", prometheus.NewGaugeVec(opts, labels))
	if v, ok := got.(*prometheus.GaugeVec); ok {
		return gaugeVec{v}
	}
	if got != nil {
		c.mismatch(name, "gauge")
	}
	return noopVec[Gauge]{}
}

// RegisterHistogram registers a histogram.  Nil buckets fall back to
// DefaultHTTPDurationBuckets.
func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = DefaultHTTPDurationBuckets
	}
	opts := prometheus.HistogramOpts{Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name, Help: help, Buckets: buckets}
	got := c.register(name, "histogram", prometheus.NewHistogramVec(opts, labels))
	if v, ok := got.(*prometheus.HistogramVec); ok {
		return histogramVec{v}
	}
	if got != nil {
		c.mismatch(name, "histogram")
	}
	return noopVec[Histogram]{}
}

type counterVec struct{ vec *prometheus.CounterVec }

func (v counterVec) WithLabelValues(lvs ...string) Counter { return v.vec.WithLabelValues(lvs...) }

type gaugeVec struct{ vec *prometheus.GaugeVec }

func (v gaugeVec) WithLabelValues(lvs ...string) Gauge { return v.vec.WithLabelValues(lvs...) }

type histogramVec struct{ vec *prometheus.HistogramVec }

func (v histogramVec) WithLabelValues(lvs ...string) Histogram { return v.vec.WithLabelValues(lvs...) }

// noopVec stands in for a metric that could not be registered.
type noopVec[M any] struct{}

func (noopVec[M]) WithLabelValues(...string) M {
	var m any = noopMetric{}
	return m.(M)
}

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Observe(float64) {}

//Personal.AI order the ending
