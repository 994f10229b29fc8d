// Package metrics exposes Prometheus instrumentation for the data-access layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LeadIDsAllocated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "lead",
		Name:      "ids_allocated_total",
		Help:      "Number of lead identifiers successfully allocated and persisted.",
	})

	LeadIDConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "lead",
		Name:      "id_conflicts_total",
		Help:      "Number of lead identifier collisions that triggered a retry.",
	})

	CascadeDeletedRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "cascade",
		Name:      "deleted_rows_total",
		Help:      "Rows removed by lead cascade deletion, grouped by entity.",
	}, []string{"entity"})

	FilterDegraded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Name:      "filter_degraded_total",
		Help:      "Number of list queries that dropped a filter because its lookup failed.",
	}, []string{"filter"})
)

func init() {
	prometheus.MustRegister(LeadIDsAllocated, LeadIDConflicts, CascadeDeletedRows, FilterDegraded)
}

// RecordCascade adds the rows removed for one dependent entity.
func RecordCascade(entity string, rows int64) {
	if rows <= 0 {
		return
	}
	CascadeDeletedRows.WithLabelValues(entity).Add(float64(rows))
}
