package metrics

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	withdrawalsRequested *prometheus.CounterVec
	withdrawalsReviewed  *prometheus.CounterVec
	amountDebited        *prometheus.CounterVec
	ledgerAdjustments    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "path"}),
		withdrawalsRequested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_withdrawals_requested_total",
			Help: "Withdrawal requests accepted as pending.",
		}, []string{"currency"}),
		withdrawalsReviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_withdrawals_reviewed_total",
			Help: "Withdrawal reviews committed, by resulting status.",
		}, []string{"status"}),
		amountDebited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_withdraw_amount_total",
			Help: "Amount debited from ledgers by approved withdrawals.",
		}, []string{"currency"}),
		ledgerAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_ledger_adjustments_total",
			Help: "Admin balance adjustments, by operation.",
		}, []string{"operation", "currency"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.withdrawalsRequested,
		m.withdrawalsReviewed,
		m.amountDebited,
		m.ledgerAdjustments,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath() // route template, not the raw path

		c.Next()

		if path == "" {
			return
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Subscribe feeds the business counters from wallet events.
func (m *Metrics) Subscribe(bus ports.EventBus) {
	bus.Subscribe(ports.TopicWithdrawalRequested, m.onRequested)
	bus.Subscribe(ports.TopicWithdrawalReviewed, m.onReviewed)
	bus.Subscribe(ports.TopicLedgerAdjusted, m.onAdjusted)
}

func (m *Metrics) onRequested(_ context.Context, e ports.Event) error {
	w, ok := e.Data.(*domain.Withdrawal)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	m.withdrawalsRequested.WithLabelValues(string(w.Currency)).Inc()
	return nil
}

func (m *Metrics) onReviewed(_ context.Context, e ports.Event) error {
	r, ok := e.Data.(*domain.WithdrawalReviewed)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	m.withdrawalsReviewed.WithLabelValues(string(r.Withdrawal.Status)).Inc()
	if r.Debited {
		amount, _ := r.Withdrawal.Amount.Float64()
		m.amountDebited.WithLabelValues(string(r.Withdrawal.Currency)).Add(amount)
	}
	return nil
}

func (m *Metrics) onAdjusted(_ context.Context, e ports.Event) error {
	a, ok := e.Data.(*domain.LedgerAdjusted)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	m.ledgerAdjustments.WithLabelValues(string(a.Adjustment.Operation), string(a.Adjustment.Currency)).Inc()
	return nil
}
