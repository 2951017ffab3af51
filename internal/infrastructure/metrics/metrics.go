// Package metrics exposes Prometheus counters for the stock and debt engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
)

// Metrics implements documents.Observer and debt.PaymentObserver.
type Metrics struct {
	receiptsCreated  *prometheus.CounterVec
	receiptsDeleted  *prometheus.CounterVec
	movementRejected *prometheus.CounterVec
	paymentsApplied  prometheus.Counter
	paymentsAmount   prometheus.Counter
	httpDuration     *prometheus.HistogramVec
}

// New registers the collectors on registerer. Nil means the default registry.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		receiptsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lamanh_receipts_created_total",
			Help: "Receipts committed by type.",
		}, []string{"type"}),
		receiptsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lamanh_receipts_deleted_total",
			Help: "Receipts reversed and deleted by type.",
		}, []string{"type"}),
		movementRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lamanh_movement_rejected_total",
			Help: "Stock movements rolled back by low-cardinality reason.",
		}, []string{"type", "reason"}),
		paymentsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lamanh_payments_applied_total",
			Help: "Debt payments that changed a record.",
		}),
		paymentsAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lamanh_payments_amount_total",
			Help: "Sum of applied debt payments in dong.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lamanh_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
	}

	registerer.MustRegister(
		m.receiptsCreated,
		m.receiptsDeleted,
		m.movementRejected,
		m.paymentsApplied,
		m.paymentsAmount,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) ReceiptCreated(kind documents.Kind) {
	m.receiptsCreated.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ReceiptDeleted(kind documents.Kind) {
	m.receiptsDeleted.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) MovementRejected(kind documents.Kind, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.movementRejected.WithLabelValues(string(kind), reason).Inc()
}

// PaymentApplied counts a payment and adds its amount.
func (m *Metrics) PaymentApplied(amount types.Money) {
	m.paymentsApplied.Inc()
	f, _ := amount.Float64()
	if f > 0 {
		m.paymentsAmount.Add(f)
	}
}

// GinMiddleware observes request latency labelled by the matched route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
