// Package metrics exposes Prometheus instruments for ledger activity.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})

	// EntriesCreated counts committed entries by type and category.
	EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_created_total",
		Help: "Ledger entries created",
	}, []string{"type", "category"})

	// EntryMutations counts committed mutations by audit action.
	EntryMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entry_mutations_total",
		Help: "Ledger mutations by action",
	}, []string{"action"})

	// IdempotentReplays counts create calls answered from an existing entry.
	IdempotentReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_idempotent_replays_total",
		Help: "Entry creations short-circuited by an idempotency key",
	})

	// VoucherAllocations counts voucher numbers handed out per sequence.
	VoucherAllocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_voucher_allocations_total",
		Help: "Voucher numbers allocated",
	}, []string{"sequence"})

	// TxRetries counts serialization retries of ledger transactions.
	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_tx_retries_total",
		Help: "Transactions retried after a serialization failure or deadlock",
	})

	// BalanceCacheLookups counts balance cache lookups by result (hit, miss, error).
	BalanceCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_balance_cache_lookups_total",
		Help: "Balance cache lookups",
	}, []string{"result"})

	// NotificationFailures counts best-effort deliveries that failed.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_notification_failures_total",
		Help: "Notifications that could not be delivered",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware records request counts and latency per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		timer := prometheus.NewTimer(httpLatency.WithLabelValues(c.Request.Method, endpoint))
		c.Next()
		timer.ObserveDuration()
		httpReqTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
