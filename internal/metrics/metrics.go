package metrics

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookit",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookit",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookit",
		Name:      "response_cache_results_total",
		Help:      "Response cache lookups by result (hit, miss).",
	}, []string{"result"})

	AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookit",
		Name:      "auth_rejections_total",
		Help:      "Requests rejected by the bearer token check or the auth rate limiter.",
	}, []string{"reason"})

	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookit",
		Name:      "events_consumed_total",
		Help:      "Domain events handled by the consumers service.",
	}, []string{"subject", "outcome"})
)

// RegisterDBStats exports the connection pool statistics of db.
// Registering the same database twice is not an error.
func RegisterDBStats(db *sql.DB, name string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, name))
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return nil
	}
	return err
}

func Handler() http.Handler {
	return promhttp.Handler()
}
