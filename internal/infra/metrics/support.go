package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(ticketEventsTotal)
}

var ticketEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "support_ticket_events_total",
		Help: "Support ticket events (opened/responded/in_progress/resolved/closed).",
	},
	[]string{"event"},
)

func IncTicketEvent(event string) {
	ticketEventsTotal.WithLabelValues(norm(event)).Inc()
}
