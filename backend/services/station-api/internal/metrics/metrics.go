package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "stations_"

	// ResultOK labels a station query that returned a page.
	ResultOK = "ok"
)

// Metrics owns the service collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	queryResults *prometheus.CounterVec
	wsClients    prometheus.Gauge
}

// New registers service collectors, Go runtime collectors and, when db is
// not nil, connection pool statistics.
func New(db *sql.DB) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		queryResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "list_queries_total",
				Help: "Station list queries by result code",
			},
			[]string{"result"},
		),
		wsClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "websocket_clients",
				Help: "Connected station event subscribers",
			},
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpLatency,
		m.queryResults,
		m.wsClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		m.registry.MustRegister(collectors.NewDBStatsCollector(db, "stations"))
	}
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveQuery records the outcome of a station list query.
func (m *Metrics) ObserveQuery(result string) {
	m.queryResults.WithLabelValues(result).Inc()
}

// ClientConnected increments the subscriber gauge.
func (m *Metrics) ClientConnected() {
	m.wsClients.Inc()
}

// ClientDisconnected decrements the subscriber gauge.
func (m *Metrics) ClientDisconnected() {
	m.wsClients.Dec()
}
