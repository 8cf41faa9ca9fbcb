package github

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_proxy_upstream_requests_total",
			Help: "Upstream GitHub API calls by operation and status code (0 = no response).",
		},
		[]string{"operation", "status"},
	)
	upstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artifact_proxy_upstream_request_duration_seconds",
			Help:    "Time until upstream response headers arrived.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	relayedBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "artifact_proxy_relayed_bytes_total",
			Help: "Archive bytes read from upstream in proxy download mode.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		upstreamRequestsTotal,
		upstreamRequestDuration,
		relayedBytesTotal,
	)
}

func observeUpstreamCall(operation string, status int, latency time.Duration) {
	upstreamRequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	upstreamRequestDuration.WithLabelValues(operation).Observe(latency.Seconds())
}

func observeRelayedBytes(n int64) {
	if n > 0 {
		relayedBytesTotal.Add(float64(n))
	}
}
