package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(dbErrorsTotal)
}

var dbErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Storage errors surfaced by repositories, labeled by repository.",
	},
	[]string{"repo"},
)

func IncDBError(repo string) {
	dbErrorsTotal.WithLabelValues(norm(repo)).Inc()
}
