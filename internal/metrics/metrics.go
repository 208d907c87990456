// Package metrics provides Prometheus metrics collection for the dispatch service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// OrderAllocationsTotal tracks allocation attempts by resulting order status.
	OrderAllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_order_allocations_total",
			Help: "Total number of order allocation attempts by outcome",
		},
		[]string{"status"},
	)

	// AllocationDuration tracks how long one AllocateOrder call takes.
	AllocationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kandypack_allocation_duration_seconds",
			Help:    "Order allocation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
	)

	// LegAllocationsTotal tracks per-leg item allocation outcomes.
	LegAllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_leg_allocations_total",
			Help: "Total number of item leg allocations by leg and result",
		},
		[]string{"leg", "result"},
	)

	// LedgerOperationsTotal tracks capacity ledger calls.
	LedgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_ledger_operations_total",
			Help: "Total number of capacity ledger operations",
		},
		[]string{"operation", "result"},
	)

	// EvictionsTotal tracks allocations evicted by reconciliation.
	EvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_evictions_total",
			Help: "Total number of allocations evicted by reconciliation",
		},
		[]string{"leg"},
	)

	// StaffingTotal tracks personnel assignment outcomes.
	StaffingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_staffing_total",
			Help: "Total number of personnel assignment attempts by outcome",
		},
		[]string{"status"},
	)

	// ReconcileJobsTotal tracks reconciliation jobs handled by the worker pool.
	ReconcileJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_reconcile_jobs_total",
			Help: "Total number of reconciliation jobs by kind and result",
		},
		[]string{"kind", "result"},
	)

	// ReconcileQueueDepth tracks jobs waiting for a worker.
	ReconcileQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kandypack_reconcile_queue_depth",
			Help: "Number of reconciliation jobs waiting in the queue",
		},
	)

	// AuditEntriesTotal tracks audit entries by write result.
	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_audit_entries_total",
			Help: "Total number of audit entries by result",
		},
		[]string{"result"},
	)

	// RequestsInterruptedTotal tracks requests cut short by a timeout or a recovered panic.
	RequestsInterruptedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kandypack_requests_interrupted_total",
			Help: "Total number of requests interrupted by reason",
		},
		[]string{"path", "reason"},
	)

	// CircuitBreakerState tracks breaker state: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kandypack_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordOrderAllocation records the duration and outcome of an order allocation.
func RecordOrderAllocation(duration time.Duration, status string) {
	AllocationDuration.Observe(duration.Seconds())
	OrderAllocationsTotal.WithLabelValues(status).Inc()
}

// RecordLegAllocation records one train or truck leg outcome.
func RecordLegAllocation(leg, result string) {
	LegAllocationsTotal.WithLabelValues(leg, result).Inc()
}

// RecordLedgerOperation records one ledger call.
func RecordLedgerOperation(operation, result string) {
	LedgerOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordEviction records an allocation evicted on leg.
func RecordEviction(leg string) {
	EvictionsTotal.WithLabelValues(leg).Inc()
}

// RecordStaffing records a personnel assignment outcome.
func RecordStaffing(status string) {
	StaffingTotal.WithLabelValues(status).Inc()
}

// RecordReconcileJob records a worker pool job outcome.
func RecordReconcileJob(kind, result string) {
	ReconcileJobsTotal.WithLabelValues(kind, result).Inc()
}

// RecordAuditEntries records n audit entries with result written, dropped or failed.
func RecordAuditEntries(result string, n int) {
	AuditEntriesTotal.WithLabelValues(result).Add(float64(n))
}

// RecordInterruptedRequest records a request on path ended early for reason ("timeout" or "panic").
func RecordInterruptedRequest(path, reason string) {
	RequestsInterruptedTotal.WithLabelValues(path, reason).Inc()
}

// SetCircuitBreakerState publishes the numeric state of the named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
