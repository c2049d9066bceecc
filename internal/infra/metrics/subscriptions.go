package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(subscriptionEventsTotal)
}

var subscriptionEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "subscription_events_total",
		Help: "Subscription lifecycle events (activated/renewed/cancelled/expired).",
	},
	[]string{"event"},
)

func IncSubscriptionEvent(event string) {
	subscriptionEventsTotal.WithLabelValues(norm(event)).Inc()
}

func AddSubscriptionEvents(event string, n int) {
	subscriptionEventsTotal.WithLabelValues(norm(event)).Add(float64(n))
}
