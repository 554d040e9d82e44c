package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	ordersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Pending orders created at checkout.",
		},
	)

	orderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_transitions_total",
			Help: "Order status transitions applied.",
		},
		[]string{"status"},
	)

	orderTransitionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_transition_failures_total",
			Help: "Order status transitions that failed before commit.",
		},
		[]string{"status"},
	)

	discountValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_discount_validations_total",
			Help: "Discount code validations by outcome.",
		},
		[]string{"result"},
	)

	discountRedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_discount_redemptions_total",
			Help: "Discount redemptions committed on payment, by outcome.",
		},
		[]string{"result"},
	)

	reconciliationAnomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_reconciliation_anomalies_total",
			Help: "Paid orders flagged for operator reconciliation.",
		},
		[]string{"kind"},
	)

	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_payment_webhook_events_total",
			Help: "Payment provider webhook events received.",
		},
		[]string{"type", "result"},
	)
)

func RecordOrderCreated() {
	ordersCreatedTotal.Inc()
}

func RecordOrderTransition(status string) {
	orderTransitionsTotal.WithLabelValues(status).Inc()
}

func RecordTransitionFailure(status string) {
	orderTransitionFailuresTotal.WithLabelValues(status).Inc()
}

// RecordDiscountValidation takes "valid" or the rejection reason.
func RecordDiscountValidation(result string) {
	discountValidationsTotal.WithLabelValues(result).Inc()
}

func RecordDiscountRedemption(result string) {
	discountRedemptionsTotal.WithLabelValues(result).Inc()
}

func RecordReconciliationAnomaly(kind string) {
	reconciliationAnomaliesTotal.WithLabelValues(kind).Inc()
}

func RecordWebhookEvent(eventType, result string) {
	webhookEventsTotal.WithLabelValues(eventType, result).Inc()
}

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// routeLabel collapses identifier segments so order and product IDs do not
// become label values: /api/v1/orders/<uuid>/cancel -> /api/v1/orders/{id}/cancel.
func routeLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}

		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
			continue
		}

		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}

	return strings.Join(segments, "/")
}

// Middleware sits outside the mux, so r.PathValue is not populated yet.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeLabel(r.URL.Path)

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(strconv.Itoa(rec.status), r.Method, route).Inc()
		httpRequestsDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
