package database

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueryMetrics holds metrics about a database query
type QueryMetrics struct {
	Operation    string
	Duration     time.Duration
	RowsAffected int64
	Failed       bool
	ErrorMessage string
}

// MetricsCollector collects database operation metrics
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector.
// A nil registerer keeps the collectors unregistered.
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider, registerer prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(registerer)
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: 100 * time.Millisecond,
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coaching_wallet",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of SQL statements by operation and table.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "table"}),
		queryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coaching_wallet",
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "SQL statements that returned an error.",
		}, []string{"operation", "table"}),
	}
}

// Observe records one executed statement
func (c *MetricsCollector) Observe(operation, table string, duration time.Duration, err error) {
	if operation == "" {
		operation = "other"
	}
	c.queryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		c.queryErrors.WithLabelValues(operation, table).Inc()
	}
}

// MeasureQuery measures the execution time of a database call
func (c *MetricsCollector) MeasureQuery(ctx context.Context, operation string, fn func() (int64, error)) (*QueryMetrics, error) {
	start := c.timeProvider.Now()

	rowsAffected, err := fn()

	metrics := &QueryMetrics{
		Operation:    operation,
		Duration:     c.timeProvider.Since(start).Std(),
		RowsAffected: rowsAffected,
		Failed:       err != nil,
	}

	if err != nil {
		metrics.ErrorMessage = err.Error()
	}
	c.Observe(operation, "", metrics.Duration, err)

	if metrics.Duration > c.slowThreshold {
		c.logger.Warn("Slow database query detected", map[string]any{
			"operation":     operation,
			"duration_ms":   metrics.Duration.Milliseconds(),
			"rows_affected": rowsAffected,
			"failed":        metrics.Failed,
			"error_message": metrics.ErrorMessage,
		})
	}

	return metrics, err
}
