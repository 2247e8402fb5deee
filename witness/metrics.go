package witness

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of a witness.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the witness metrics and registers them on reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "witness_requests_total",
			Help: "Total number of witness requests by flow, operation and outcome",
		}, []string{"flow", "op", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "witness_request_duration_seconds",
			Help:    "Duration of witness requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"flow", "op"}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(flowName, op, outcome string, start time.Time) {
	m.Requests.WithLabelValues(flowName, op, outcome).Inc()
	m.Duration.WithLabelValues(flowName, op).Observe(time.Since(start).Seconds())
}
