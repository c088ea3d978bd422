package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopcart_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopcart_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopcart_store_operations_total",
		Help: "Count of gateway operations by entity, operation and result",
	}, []string{"entity", "op", "result"})

	storeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopcart_store_operation_duration_seconds",
		Help:    "Duration of gateway operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "op"})

	cartTotals = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopcart_cart_total",
		Help:    "Cart totals including tax, observed on every cart summary",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	recoveryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopcart_recovery_answers_total",
		Help: "Security question answers by result",
	}, []string{"result"})

	recoverySessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopcart_recovery_sessions",
		Help: "Number of live password recovery sessions",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveStoreOp records one gateway call
func ObserveStoreOp(entity, op string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOperations.WithLabelValues(entity, op, result).Inc()
	storeDuration.WithLabelValues(entity, op).Observe(duration.Seconds())
}

// ObserveCartTotal records a computed cart total
func ObserveCartTotal(total decimal.Decimal) {
	cartTotals.Observe(total.InexactFloat64())
}

// ObserveRecoveryAnswer counts a recovery answer with its outcome
func ObserveRecoveryAnswer(result string) {
	recoveryAttempts.WithLabelValues(result).Inc()
}

// SetRecoverySessions sets the live recovery session gauge
func SetRecoverySessions(count int) {
	if count < 0 {
		count = 0
	}
	recoverySessions.Set(float64(count))
}
