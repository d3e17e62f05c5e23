package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the draw service collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckydraw",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "luckydraw",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route"},
	)

	draws = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckydraw",
			Subsystem: "engine",
			Name:      "draws_total",
			Help:      "Draw operations by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	winners = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckydraw",
			Subsystem: "engine",
			Name:      "winners_total",
			Help:      "Winner records appended, by mode.",
		},
		[]string{"mode"},
	)

	poolLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckydraw",
			Subsystem: "ingest",
			Name:      "pool_loads_total",
			Help:      "Ticket pool loads by source.",
		},
		[]string{"source"},
	)

	skippedRows = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "luckydraw",
			Subsystem: "ingest",
			Name:      "skipped_rows_total",
			Help:      "Malformed CSV rows skipped during ingestion.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		draws,
		winners,
		poolLoads,
		skippedRows,
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordDraw counts a draw attempt; outcome is "ok" or the error kind.
func RecordDraw(mode, outcome string) {
	draws.WithLabelValues(mode, outcome).Inc()
}

// RecordWinners counts winner records appended in one operation.
func RecordWinners(mode string, n int) {
	if n > 0 {
		winners.WithLabelValues(mode).Add(float64(n))
	}
}

// RecordPoolLoad counts a dataset replacement and the rows it skipped.
func RecordPoolLoad(source string, skipped int) {
	poolLoads.WithLabelValues(source).Inc()
	if skipped > 0 {
		skippedRows.Add(float64(skipped))
	}
}
