package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"posledger/internal/domain/documents/bill"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	billsCreated    *prometheus.CounterVec
	billLines       *prometheus.CounterVec
	billsDeleted    *prometheus.CounterVec
}

var _ bill.Observer = (*Metrics)(nil)

// NewMetrics registers the HTTP and bill collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "posledger",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "posledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		billsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "posledger",
			Name:      "bills_created_total",
			Help:      "Committed bill creations by direction.",
		}, []string{"direction"}),
		billLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "posledger",
			Name:      "bill_lines_total",
			Help:      "Lines of committed bills by direction.",
		}, []string{"direction"}),
		billsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "posledger",
			Name:      "bills_deleted_total",
			Help:      "Committed bill deletions by direction.",
		}, []string{"direction"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.billsCreated,
		m.billLines,
		m.billsDeleted,
	)
	return m
}

// Registerer exposes the registry for extra collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// BillCreated implements bill.Observer.
func (m *Metrics) BillCreated(dir bill.Direction, lines int) {
	m.billsCreated.WithLabelValues(string(dir)).Inc()
	m.billLines.WithLabelValues(string(dir)).Add(float64(lines))
}

// BillDeleted implements bill.Observer.
func (m *Metrics) BillDeleted(dir bill.Direction) {
	m.billsDeleted.WithLabelValues(string(dir)).Inc()
}
