// api/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry. A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	decisions       *prometheus.CounterVec
	evaluation      prometheus.Histogram
	mutations       *prometheus.CounterVec
	auditFailures   prometheus.Counter
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Access decisions by permission, effect and deny reason.",
		}, []string{"permission", "effect", "reason"}),
		evaluation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "authz_evaluation_seconds",
			Help:    "Time to load snapshots and evaluate one access check.",
			Buckets: prometheus.DefBuckets,
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_mutations_total",
			Help: "Role, user and team mutations by outcome.",
		}, []string{"entity", "action", "outcome"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_record_failures_total",
			Help: "Audit facts the sink failed to store.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	registry.MustRegister(m.decisions, m.evaluation, m.mutations, m.auditFailures, m.requestsTotal, m.requestDuration)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveDecision(permission, effect, reason string, took time.Duration) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(permission, effect, reason).Inc()
	m.evaluation.Observe(took.Seconds())
}

func (m *Metrics) ObserveMutation(entity, action string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.mutations.WithLabelValues(entity, action, outcome).Inc()
}

func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// Middleware counts every request under its gin route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
