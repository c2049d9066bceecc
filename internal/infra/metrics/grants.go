package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(applicationEventsTotal)
}

var applicationEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "grant_application_events_total",
		Help: "Grant application lifecycle events (created/submitted/under_review/approved/rejected).",
	},
	[]string{"event"},
)

func IncApplicationEvent(event string) {
	applicationEventsTotal.WithLabelValues(norm(event)).Inc()
}
