package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RefillsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mart_refills_recorded_total",
			Help: "Refill transactions appended to mart ledgers",
		},
	)

	SalesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mart_sales_recorded_total",
			Help: "Sale transactions appended to mart ledgers",
		},
	)

	// OversellUnitsAbsorbed counts units sold beyond on-hand stock under the
	// floor-at-zero policy. A non-zero rate here is the signal to consider
	// enabling strict stock checking.
	OversellUnitsAbsorbed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mart_oversell_units_absorbed_total",
			Help: "Sale units that exceeded on-hand stock and were absorbed",
		},
	)
)
