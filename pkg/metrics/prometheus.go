// Package metrics provides Prometheus metrics for the hello service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "hello"

// Label values used by the config reload counter.
const (
	ReloadOK     = "ok"
	ReloadFailed = "failed"
)

// Latency buckets in milliseconds, shared by request and GC histograms.
var latencyBucketsMs = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // bucket table

// Manager owns every collector the service exports.
type Manager struct {
	registry prometheus.Registerer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	errorsByType        *prometheus.CounterVec
	errorsByEndpoint    *prometheus.CounterVec
	paramRejections     *prometheus.CounterVec
	arithmeticOverflows *prometheus.CounterVec
	panicsRecovered     prometheus.Counter

	configReloads  *prometheus.CounterVec
	heapAlloc      prometheus.Gauge
	goroutines     prometheus.Gauge
	gcPauseAverage prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide manager behind Default

// Private registry so the exposition only carries what we record.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // exposed by GetRegistry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
// Registering two managers on one registry panics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{registry: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(m)
	}

	f := promauto.With(m.registry)
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Name: name, Help: help}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: Namespace, Name: name, Help: help})
	}

	m.httpRequests = counter("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   latencyBucketsMs,
	}, []string{"endpoint", "method", "status_code"})
	m.httpInFlight = gauge("http_requests_in_flight", "Number of HTTP requests currently being served")

	m.errorsByType = counter("errors_by_type_total", "Total number of errors by type and severity", "error_type", "severity")
	m.errorsByEndpoint = counter("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.paramRejections = counter("param_rejections_total", "Path parameters rejected at binding, by endpoint and parameter", "endpoint", "param")
	m.arithmeticOverflows = counter("arithmetic_overflows_total", "Sums that overflowed int64, by overflow policy", "policy")
	m.panicsRecovered = f.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Handler panics recovered by the HTTP stack",
	})

	m.configReloads = counter("config_reloads_total", "Config file reloads by result", "result")
	m.heapAlloc = gauge("system_memory_usage_bytes", "Allocated heap in bytes")
	m.goroutines = gauge("system_goroutine_count", "Number of goroutines")
	m.gcPauseAverage = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds, sampled periodically",
		Buckets:   latencyBucketsMs,
	})
	return m
}

// RecordHTTPRequest records a served request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// IncInFlight marks a request as started.
func (m *Manager) IncInFlight() { m.httpInFlight.Inc() }

// DecInFlight marks a request as finished.
func (m *Manager) DecInFlight() { m.httpInFlight.Dec() }

// RecordError records an error response by type, severity and endpoint.
func (m *Manager) RecordError(endpoint, method, errorType, severity string) {
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordParamRejected counts a path parameter that failed binding.
func (m *Manager) RecordParamRejected(endpoint, param string) {
	m.paramRejections.WithLabelValues(endpoint, param).Inc()
}

// RecordArithmeticOverflow counts an overflowing sum under policy.
func (m *Manager) RecordArithmeticOverflow(policy string) {
	m.arithmeticOverflows.WithLabelValues(policy).Inc()
}

// RecordPanicRecovered counts a recovered handler panic.
func (m *Manager) RecordPanicRecovered() { m.panicsRecovered.Inc() }

// RecordConfigReload counts a config reload attempt; result is ReloadOK or ReloadFailed.
func (m *Manager) RecordConfigReload(result string) {
	m.configReloads.WithLabelValues(result).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) { m.heapAlloc.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func (m *Manager) UpdateSystemGoroutineCount(count int) { m.goroutines.Set(float64(count)) }

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) { m.gcPauseAverage.Observe(pauseMs) }

// Default returns the process-wide manager bound to GetRegistry.
func Default() *Manager {
	return globalManager
}

// RecordConfigReload records a config reload on the default manager.
func RecordConfigReload(result string) {
	globalManager.RecordConfigReload(result)
}

// UpdateSystemMemoryUsage sets heap usage on the default manager.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.UpdateSystemMemoryUsage(bytes)
}

// UpdateSystemGoroutineCount sets the goroutine count on the default manager.
func UpdateSystemGoroutineCount(count int) {
	globalManager.UpdateSystemGoroutineCount(count)
}

// RecordSystemGCPauseTime records GC pause time on the default manager.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.RecordSystemGCPauseTime(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
