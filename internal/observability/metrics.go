package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// Availability outcomes recorded by RecordAvailability.
const (
	AvailabilityNotConfigured = "not_configured"
	AvailabilityBadDueDate    = "unparseable_due_date"
	AvailabilityPastDue       = "past_due"
	AvailabilityFree          = "available"
	AvailabilityBusy          = "busy"
	AvailabilityFailOpen      = "fail_open"
)

// Metrics owns the prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	assignments       *prometheus.CounterVec
	skillAnalyses     *prometheus.CounterVec
	availability      *prometheus.CounterVec
	dependencyLatency *prometheus.HistogramVec
	pipelineFailures  *prometheus.CounterVec
}

// Option customizes Metrics construction.
type Option func(*metricsOptions)

type metricsOptions struct {
	namespace      string
	buckets        []float64
	processMetrics bool
}

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(o *metricsOptions) {
		o.namespace = namespace
	}
}

// WithBuckets overrides latency histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *metricsOptions) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// WithProcessMetrics adds the Go runtime and process collectors.
func WithProcessMetrics() Option {
	return func(o *metricsOptions) {
		o.processMetrics = true
	}
}

// NewMetrics registers all collectors on a private registry.
func NewMetrics(opts ...Option) *Metrics {
	o := metricsOptions{
		namespace: "ticket_assignment",
		buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry := prometheus.NewRegistry()
	if o.processMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   o.buckets,
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "http_errors_total",
			Help:      "HTTP errors by route, method and error code.",
		}, []string{"path", "method", "code"}),
		assignments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "assignments_total",
			Help:      "Assignment decisions by status and tier.",
		}, []string{"status", "tier"}),
		skillAnalyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "skill_analyses_total",
			Help:      "Skill analyses by source.",
		}, []string{"source"}),
		availability: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "availability_checks_total",
			Help:      "Technician availability checks by outcome.",
		}, []string{"outcome"}),
		dependencyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "dependency_call_duration_seconds",
			Help:      "External dependency call latency.",
			Buckets:   o.buckets,
		}, []string{"dependency", "result"}),
		pipelineFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "pipeline_failures_total",
			Help:      "Post-decision failures (recording, publishing) by stage.",
		}, []string{"stage"}),
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordAssignment counts one assignment decision.
func (m *Metrics) RecordAssignment(status domain.AssignmentStatus, tier domain.PriorityTier) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(string(status), strconv.Itoa(int(tier))).Inc()
}

// RecordSkillAnalysis counts where a skill analysis came from.
func (m *Metrics) RecordSkillAnalysis(source domain.SkillAnalysisSource) {
	if m == nil {
		return
	}
	m.skillAnalyses.WithLabelValues(string(source)).Inc()
}

// RecordAvailability counts one availability check outcome.
func (m *Metrics) RecordAvailability(outcome string) {
	if m == nil {
		return
	}
	m.availability.WithLabelValues(outcome).Inc()
}

// ObserveDependency records latency of one external call.
func (m *Metrics) ObserveDependency(dependency string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dependencyLatency.WithLabelValues(dependency, result).Observe(duration.Seconds())
}

// RecordPipelineFailure counts a failure after the decision was made.
func (m *Metrics) RecordPipelineFailure(stage string) {
	if m == nil {
		return
	}
	m.pipelineFailures.WithLabelValues(stage).Inc()
}
