package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_dashboard"

// Metrics agrupa los colectores del dashboard
type Metrics struct {
	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	ActiveBundles prometheus.Gauge
}

// New registra los colectores en reg. Con reg nil se usa el registro por defecto.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Remote API calls by operation and outcome",
		}, []string{"op", "outcome"}),

		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Remote API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),

		ActiveBundles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Browser sessions holding a live set of stores",
		}),
	}
}

// ObserveRequest registra una llamada remota. Acepta un receptor nil.
func (m *Metrics) ObserveRequest(op, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op, outcome).Inc()
	m.Duration.WithLabelValues(op).Observe(seconds)
}
