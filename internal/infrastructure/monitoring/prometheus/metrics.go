package prometheus

import (
	"strconv"
	"time"
)

// Pipeline stage labels.
const (
	StageAdapt      = "adapt"
	StageCharges    = "charges"
	StageNeighbors  = "neighbors"
	StageDescriptor = "descriptors"
	StageAggregate  = "aggregate"
)

// AppMetrics holds every metric the service exports.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Descriptor pipeline
	StageDuration       HistogramVec
	StageErrorsTotal    CounterVec
	MoleculesTotal      CounterVec
	MoleculeAtoms       HistogramVec
	BatchSize           HistogramVec
	ToolkitCallsTotal   CounterVec
	ToolkitCallDuration HistogramVec
	ToolkitRetriesTotal CounterVec

	// Worker
	MessagesTotal          CounterVec
	MessageProcessDuration HistogramVec

	// System health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultStageDurationBuckets = []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30}
	DefaultAtomCountBuckets     = []float64{5, 10, 20, 50, 100, 200, 500}
	DefaultBatchSizeBuckets     = []float64{1, 2, 5, 10, 25, 50, 100, 250}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	m.StageDuration = collector.RegisterHistogram("pipeline_stage_duration_seconds", "Descriptor pipeline stage duration", DefaultStageDurationBuckets, "stage")
	m.StageErrorsTotal = collector.RegisterCounter("pipeline_stage_errors_total", "Descriptor pipeline stage failures", "stage", "error_code")
	m.MoleculesTotal = collector.RegisterCounter("molecules_processed_total", "Molecules run through the pipeline", "charge_method", "status")
	m.MoleculeAtoms = collector.RegisterHistogram("molecule_atoms", "Atoms per processed molecule", DefaultAtomCountBuckets)
	m.BatchSize = collector.RegisterHistogram("batch_size", "Molecules per batch request", DefaultBatchSizeBuckets)
	m.ToolkitCallsTotal = collector.RegisterCounter("toolkit_calls_total", "Toolkit sidecar calls", "endpoint", "status")
	m.ToolkitCallDuration = collector.RegisterHistogram("toolkit_call_duration_seconds", "Toolkit sidecar call duration", DefaultHTTPDurationBuckets, "endpoint")
	m.ToolkitRetriesTotal = collector.RegisterCounter("toolkit_retries_total", "Toolkit sidecar retries", "endpoint")

	m.MessagesTotal = collector.RegisterCounter("mq_messages_total", "Worker messages handled", "topic", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Worker message processing duration", DefaultHTTPDurationBuckets, "topic")

	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// Helpers.  Every helper accepts a nil *AppMetrics.

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStage observes a pipeline stage.  code is empty on success.
func RecordStage(metrics *AppMetrics, stage string, duration time.Duration, code string) {
	if metrics == nil {
		return
	}
	metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if code != "" {
		metrics.StageErrorsTotal.WithLabelValues(stage, code).Inc()
	}
}

func RecordMolecule(metrics *AppMetrics, method string, numAtoms int, ok bool) {
	if metrics == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	metrics.MoleculesTotal.WithLabelValues(method, status).Inc()
	if ok {
		metrics.MoleculeAtoms.WithLabelValues().Observe(float64(numAtoms))
	}
}

func RecordBatch(metrics *AppMetrics, size int) {
	if metrics == nil {
		return
	}
	metrics.BatchSize.WithLabelValues().Observe(float64(size))
}

func RecordToolkitCall(metrics *AppMetrics, endpoint string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	metrics.ToolkitCallsTotal.WithLabelValues(endpoint, status).Inc()
	metrics.ToolkitCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func RecordToolkitRetry(metrics *AppMetrics, endpoint string) {
	if metrics == nil {
		return
	}
	metrics.ToolkitRetriesTotal.WithLabelValues(endpoint).Inc()
}

func RecordMessage(metrics *AppMetrics, topic, status string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.MessagesTotal.WithLabelValues(topic, status).Inc()
	metrics.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordHealth sets the health gauge of component to 1 or 0.
func RecordHealth(metrics *AppMetrics, component string, up bool) {
	if metrics == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	metrics.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func RecordUptime(metrics *AppMetrics, service string, since time.Time) {
	if metrics == nil {
		return
	}
	metrics.ServiceUptime.WithLabelValues(service).Set(time.Since(since).Seconds())
}

//Personal.AI order the ending
