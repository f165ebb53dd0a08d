package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes request and heartbeat counters on a private registry so
// parallel test routers never fight over the default one.
type Metrics struct {
	Registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	heartbeatsTotal *prometheus.CounterVec
	heartbeatRaces  prometheus.Counter
}

// NewMetrics creates the metric set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heartbeat_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heartbeat_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		heartbeatsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heartbeat_beats_total",
			Help: "Accepted heartbeats by upsert branch",
		}, []string{"method"}),
		heartbeatRaces: factory.NewCounter(prometheus.CounterOpts{
			Name: "heartbeat_races_total",
			Help: "Heartbeats rejected by the recency constraint",
		}),
	}
}

// ObserveBeat records an accepted heartbeat's upsert branch.
func (m *Metrics) ObserveBeat(method string) {
	m.heartbeatsTotal.WithLabelValues(method).Inc()
}

// ObserveRace records a recency-constraint rejection.
func (m *Metrics) ObserveRace() {
	m.heartbeatRaces.Inc()
}

// Middleware counts requests and observes their duration per route path.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestsTotal.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}
