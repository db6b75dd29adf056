package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RejectionsTotal counts gate rejections by kind: unauthenticated, csrf,
// forbidden. The fail-closed paths all land here, so a spike is visible.
var RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "campaign_office",
	Subsystem: "authz",
	Name:      "rejections_total",
	Help:      "Requests rejected by the route gate, by rejection kind.",
}, []string{"kind"})

// AuditWriteFailures counts audit entries that could not be persisted. A
// non-zero value here means mutations were rolled back for lack of an
// audit record and needs operator attention.
var AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "campaign_office",
	Subsystem: "audit",
	Name:      "write_failures_total",
	Help:      "Audit log append failures.",
})

// AuditEntriesTotal counts audit entries appended, by action code.
var AuditEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "campaign_office",
	Subsystem: "audit",
	Name:      "entries_total",
	Help:      "Audit log entries appended, by action.",
}, []string{"action"})

// MetricsHandler serves the prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
