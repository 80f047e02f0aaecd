package flickrbridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts invocations by scheme and outcome
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flickr_bridge_requests_total",
			Help: "Total API invocations by signing scheme and outcome",
		},
		[]string{"scheme", "outcome"},
	)

	// requestDuration tracks the HTTP exchange plus decode time
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flickr_bridge_request_duration_seconds",
			Help:    "Duration of API invocations excluding pacing waits",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scheme"},
	)

	// pacingWait tracks time spent blocked by the rate limiter
	pacingWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flickr_bridge_pacing_wait_seconds",
			Help:    "Time spent waiting for the next request slot",
			Buckets: []float64{0, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	// failuresTotal counts latched failures by kind
	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flickr_bridge_failures_total",
			Help: "Total failures by error kind",
		},
		[]string{"kind"},
	)
)

func recordRequest(scheme Scheme, outcome string, seconds float64) {
	requestsTotal.WithLabelValues(string(scheme), outcome).Inc()
	requestDuration.WithLabelValues(string(scheme)).Observe(seconds)
}

func recordFailure(kind ErrorKind) {
	failuresTotal.WithLabelValues(kind.String()).Inc()
}
