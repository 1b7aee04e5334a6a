package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentOrdersTotal,
		paymentVerificationsTotal,
		paymentsRevenueTotal,
		stripeWebhookEventsTotal,
	)
}

var (
	paymentOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_orders_total",
			Help: "Payment orders/sessions created, by provider.",
		},
		[]string{"provider"},
	)

	paymentVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Payment verification attempts by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "The total monetary value of completed purchases, labeled by currency.",
		},
		[]string{"currency"},
	)

	stripeWebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stripe_webhook_events_total",
			Help: "Stripe webhook deliveries by event type and outcome.",
		},
		[]string{"type", "outcome"},
	)
)

func IncOrder(provider string) {
	paymentOrdersTotal.WithLabelValues(norm(provider)).Inc()
}

func IncVerification(provider, outcome string) {
	paymentVerificationsTotal.WithLabelValues(norm(provider), norm(outcome)).Inc()
}

func AddRevenue(currency string, amount int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}

func IncWebhookEvent(eventType, outcome string) {
	stripeWebhookEventsTotal.WithLabelValues(norm(eventType), norm(outcome)).Inc()
}
