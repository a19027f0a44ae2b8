// Package metrics exposes the prometheus collectors for ledger and compliance activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	entriesPosted       prometheus.Counter
	validationFailures  *prometheus.CounterVec
	violationsRecorded  *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	disclosures         prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfrs_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mfrs_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		entriesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mfrs_journal_entries_posted_total",
			Help: "Journal entries successfully posted.",
		}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfrs_journal_validation_failures_total",
			Help: "Journal entry validations that returned valid=false, by operation.",
		}, []string{"operation"}),
		violationsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfrs_compliance_violations_total",
			Help: "Compliance violations found, by severity.",
		}, []string{"level"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mfrs_best_effort_write_failures_total",
			Help: "Best-effort writes (audit, violations, disclosures) that failed.",
		}, []string{"kind"}),
		disclosures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mfrs_disclosures_generated_total",
			Help: "Disclosures generated from requirement templates.",
		}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.entriesPosted,
		m.validationFailures,
		m.violationsRecorded,
		m.persistenceFailures,
		m.disclosures,
	)
	return m
}

func (m *Metrics) EntryPosted() {
	if m == nil {
		return
	}
	m.entriesPosted.Inc()
}

func (m *Metrics) ValidationFailed(operation string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) ViolationRecorded(level string) {
	if m == nil {
		return
	}
	m.violationsRecorded.WithLabelValues(level).Inc()
}

// BestEffortWriteFailed counts a swallowed write failure of the given kind.
func (m *Metrics) BestEffortWriteFailed(kind string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) DisclosuresGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.disclosures.Add(float64(n))
}

// GinMiddleware records request counts and latency keyed by the matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
