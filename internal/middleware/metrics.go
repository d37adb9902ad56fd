package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
)

// MetricsMiddleware records request counts, error counts, request
// durations, and per-status response counts. Collectors live in an
// instance-owned registry, so two pipelines never share counters.
type MetricsMiddleware struct {
	name     string
	registry *prometheus.Registry

	requestsTotal   prometheus.Counter
	errorsTotal     prometheus.Counter
	requestDuration prometheus.Histogram
	responsesTotal  *prometheus.CounterVec
}

var _ pipeline.Middleware = (*MetricsMiddleware)(nil)

// MetricsOption configures the metrics middleware.
type MetricsOption func(*MetricsMiddleware)

// WithMetricsName overrides the middleware name.
func WithMetricsName(name string) MetricsOption {
	return func(m *MetricsMiddleware) {
		m.name = name
	}
}

// NewMetrics creates the metrics middleware with its own registry.
func NewMetrics(opts ...MetricsOption) *MetricsMiddleware {
	m := &MetricsMiddleware{
		name:     "metrics",
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avapibridge",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Total number of requests entering the pipeline",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avapibridge",
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Total number of failed requests",
		}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "avapibridge",
			Subsystem: "pipeline",
			Name:      "request_duration_seconds",
			Help:      "Request duration from pipeline entry to response",
			Buckets:   prometheus.DefBuckets,
		}),
		responsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avapibridge",
			Subsystem: "pipeline",
			Name:      "responses_total",
			Help:      "Total number of responses by status code",
		}, []string{"status"}),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.requestDuration,
		m.responsesTotal,
	)

	return m
}

// Name returns the middleware name.
func (m *MetricsMiddleware) Name() string {
	return m.name
}

// OnRequest counts the request and stamps its start time.
func (m *MetricsMiddleware) OnRequest(_ context.Context, req *message.Request) (*message.Request, error) {
	m.requestsTotal.Inc()
	req.SetExtension(ExtKeyMetricsStart, time.Now())
	return req, nil
}

// OnResponse observes the request duration and counts the response by
// status code.
func (m *MetricsMiddleware) OnResponse(_ context.Context, resp *message.Response) (*message.Response, error) {
	if req := resp.Request(); req != nil {
		if v, ok := req.Extension(ExtKeyMetricsStart); ok {
			if start, ok := v.(time.Time); ok {
				m.requestDuration.Observe(time.Since(start).Seconds())
			}
		}
	}

	m.responsesTotal.WithLabelValues(strconv.Itoa(resp.StatusCode())).Inc()

	return resp, nil
}

// OnError counts the failure. It never recovers.
func (m *MetricsMiddleware) OnError(context.Context, error, *message.Request) (*message.Response, error) {
	m.errorsTotal.Inc()
	return nil, nil
}

// Registry exposes the instance-owned registry for composition.
func (m *MetricsMiddleware) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the middleware's metrics in Prometheus text format.
func (m *MetricsMiddleware) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Snapshot gathers the current metric families for programmatic reads.
func (m *MetricsMiddleware) Snapshot() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}
