// Package metrics exposes Prometheus metrics for the HTTP API and item lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Item operations counted by ItemOp.
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpSoftDelete = "softdelete"
	OpUndelete   = "undelete"
	OpDelete     = "delete"
	OpImage      = "image"
)

const defaultNamespace = "zaloga"

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	itemOps             *prometheus.CounterVec
}

// Option configures Metrics.
type Option func(*options)

type options struct {
	namespace      string
	buckets        []float64
	runtimeMetrics bool
}

// WithNamespace sets the metric namespace (default "zaloga").
func WithNamespace(ns string) Option {
	return func(o *options) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// WithBuckets sets the request duration histogram buckets, in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// WithRuntimeMetrics also registers the Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(o *options) { o.runtimeMetrics = true }
}

// New creates Metrics on a fresh registry.
func New(opts ...Option) *Metrics {
	o := options{namespace: defaultNamespace, buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   o.buckets,
		}, []string{"route", "method"}),
		itemOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "items",
			Name:      "operations_total",
			Help:      "Successful item mutations by operation.",
		}, []string{"op"}),
	}

	m.registry.MustRegister(m.httpRequests, m.httpRequestDuration, m.itemOps)
	if o.runtimeMetrics {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ItemOp records a successful item mutation.
func (m *Metrics) ItemOp(op string) {
	if m == nil {
		return
	}
	m.itemOps.WithLabelValues(op).Inc()
}
