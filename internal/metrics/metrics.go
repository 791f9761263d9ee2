package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_bookings_total",
			Help: "Total number of bookings created",
		},
		[]string{"source"},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_booking_conflicts_total",
			Help: "Booking attempts rejected due to overlap or missing slot",
		},
	)

	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_session_redemptions_total",
			Help: "Total number of session redemptions",
		},
		[]string{"kind"},
	)

	RedemptionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_session_redemption_failures_total",
			Help: "Rejected session redemptions",
		},
		[]string{"reason"},
	)

	ApprovalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_high_risk_requests_total",
			Help: "High-risk action requests created",
		},
		[]string{"action"},
	)

	ApprovalDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_high_risk_decisions_total",
			Help: "High-risk action request decisions",
		},
		[]string{"decision"},
	)

	OrderVoidsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_order_voids_total",
			Help: "Orders voided",
		},
	)

	PaymentRefundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_payment_refunds_total",
			Help: "Payments refunded",
		},
	)

	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_audit_write_failures_total",
			Help: "Audit ledger writes that failed",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(source string) {
	BookingsTotal.WithLabelValues(source).Inc()
}

func RecordRedemption(kind string) {
	RedemptionsTotal.WithLabelValues(kind).Inc()
}

func RecordRedemptionFailure(reason string) {
	RedemptionFailuresTotal.WithLabelValues(reason).Inc()
}

func RecordApprovalRequest(action string) {
	ApprovalRequestsTotal.WithLabelValues(action).Inc()
}

func RecordApprovalDecision(decision string) {
	ApprovalDecisionsTotal.WithLabelValues(decision).Inc()
}
