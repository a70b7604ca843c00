package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	registry *prometheus.Registry

	// JobsProcessed counts records written, by model
	JobsProcessed *prometheus.CounterVec

	// JobLatency observes end-to-end latency from submission to completion
	JobLatency *prometheus.HistogramVec

	// QueueDepth is the backlog observed at the last dequeue
	QueueDepth prometheus.Gauge

	// DecodeErrors counts malformed payloads that were skipped
	DecodeErrors prometheus.Counter

	// StoreErrors counts transient store failures, by operation
	StoreErrors *prometheus.CounterVec

	// StrategyErrors counts failed strategy runs, by model
	StrategyErrors *prometheus.CounterVec

	// RecordsLost counts dequeued jobs whose record could not be written
	RecordsLost prometheus.Counter

	// JobsQueued counts jobs accepted by the API
	JobsQueued prometheus.Counter

	// RequestsTotal counts HTTP requests
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes HTTP request duration
	RequestDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		JobsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infer_router_jobs_processed_total",
				Help: "Total number of jobs processed",
			},
			[]string{"model"},
		),
		JobLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "infer_router_job_latency_seconds",
				Help:    "End-to-end job latency from submission to result in seconds",
				Buckets: []float64{.5, 1, 2, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"model"},
		),
		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "infer_router_queue_depth",
				Help: "Work queue length observed at the last dequeue",
			},
		),
		DecodeErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "infer_router_decode_errors_total",
				Help: "Total number of malformed jobs skipped",
			},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infer_router_store_errors_total",
				Help: "Total number of transient store failures",
			},
			[]string{"operation"},
		),
		StrategyErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infer_router_strategy_errors_total",
				Help: "Total number of failed strategy runs",
			},
			[]string{"model"},
		),
		RecordsLost: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "infer_router_records_lost_total",
				Help: "Dequeued jobs whose result record could not be written",
			},
		),
		JobsQueued: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "infer_router_jobs_queued_total",
				Help: "Total number of jobs accepted by the API",
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
