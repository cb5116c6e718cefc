package provider

import (
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/web3-hd/internal/wallet/chain"
)

const metricsNamespace = "web3hd"

// Metrics records JSON-RPC traffic per chain and method.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the RPC collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "JSON-RPC requests sent to chain providers.",
		}, []string{"chain", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Latency of JSON-RPC requests sent to chain providers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"chain", "method"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register provider metrics")
		}
	}

	return m, nil
}

func (m *Metrics) observe(c chain.Chain, method string, start time.Time, err error) {
	if m == nil {
		return
	}

	status := "ok"
	switch {
	case errors.Is(err, ethereum.NotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}

	m.requests.WithLabelValues(c.String(), method, status).Inc()
	m.duration.WithLabelValues(c.String(), method).Observe(time.Since(start).Seconds())
}
