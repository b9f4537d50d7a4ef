package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	OperationsTotal    *prometheus.CounterVec
	RepositoryDuration *prometheus.HistogramVec

	RPCsTotal   *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	OpenSessions    prometheus.Gauge
	SessionsEvicted prometheus.Counter
}

// NewCollector registers the salondesk collectors on reg.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)
	return &Collector{
		OperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "operations_total",
			Help:      "Calendar engine operations by operation and outcome status.",
		}, []string{"op", "status"}),

		RepositoryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "repository_duration_seconds",
			Help:      "Appointment store call latency as seen by the engine.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"op", "result"}),

		RPCsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),

		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "gRPC request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method"}),

		OpenSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "open_sessions",
			Help:      "Calendar sessions currently held in memory.",
		}),

		SessionsEvicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "sessions_evicted_total",
			Help:      "Calendar sessions closed after sitting idle.",
		}),
	}
}

func (c *Collector) ObserveOperation(op, status string) {
	c.OperationsTotal.WithLabelValues(op, status).Inc()
}

func (c *Collector) ObserveRepository(op string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.RepositoryDuration.WithLabelValues(op, result).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveRPC(method, code string, elapsed time.Duration) {
	c.RPCsTotal.WithLabelValues(method, code).Inc()
	c.RPCDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (c *Collector) SetOpenSessions(n int) {
	c.OpenSessions.Set(float64(n))
}

func (c *Collector) SessionEvicted() {
	c.SessionsEvicted.Inc()
}
