package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewCounter registers the general counter on the default registry.
// Result labels: app_requests_total, user_registered_total, user_updated_total,
// user_revoked_total, user_deleted_total, user_restored_total, auth_failed_total.
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "atonwebapi",
			Name:      "general_counters",
			Help:      "Request and account lifecycle counters.",
		},
		[]string{"result"})
}
