// Package metrics provides Prometheus metrics for the leads-api service.
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route template and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leads",
			Subsystem: "leads_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leads",
			Subsystem: "leads_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// QueryDuration tracks each borrowed-connection unit of work.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leads",
			Subsystem: "leads_api",
			Name:      "db_query_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "status"},
	)

	// CRMUpdatesTotal counts CRM id assignments by outcome.
	CRMUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leads",
			Subsystem: "leads_api",
			Name:      "crm_updates_total",
			Help:      "Total CRM id assignments by outcome",
		},
		[]string{"outcome"},
	)

	// PendingCountFallbacks counts pending-count reads answered with the zero default.
	PendingCountFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leads",
			Subsystem: "leads_api",
			Name:      "pending_count_fallbacks_total",
			Help:      "Pending lead counts that fell back to zero after a database error",
		},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, endpoint, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveQuery records the duration of a database operation.
func ObserveQuery(operation, status string, duration time.Duration) {
	QueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordCRMUpdate records the outcome of a CRM id assignment.
func RecordCRMUpdate(outcome string) {
	CRMUpdatesTotal.WithLabelValues(outcome).Inc()
}

// RecordPendingCountFallback records a degraded pending-count response.
func RecordPendingCountFallback() {
	PendingCountFallbacks.Inc()
}

// RegisterDBStats exports connection pool statistics for db.
func RegisterDBStats(db *sql.DB, name string) error {
	return prometheus.Register(collectors.NewDBStatsCollector(db, name))
}
