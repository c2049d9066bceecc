package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
		callbackDuplicatesTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by status (pending/completed/failed/refunded).",
		},
		[]string{"status"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "Total monetary value of completed payments, labeled by currency.",
		},
		[]string{"currency"},
	)

	callbackDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_callback_duplicates_total",
			Help: "Gateway callback deliveries dropped as duplicates.",
		},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPaymentRevenue(currency string, amountCents int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amountCents))
}

func IncCallbackDuplicate() {
	callbackDuplicatesTotal.Inc()
}
