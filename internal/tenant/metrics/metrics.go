package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TenantsProvisioned prometheus.Counter
	ProvisionDuration  prometheus.Histogram
	PlanChanges        *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		TenantsProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "saasbase_tenants_provisioned_total",
			Help: "Total number of tenants provisioned with their first administrator",
		}),
		ProvisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "saasbase_tenant_provision_duration_seconds",
			Help:    "Duration of tenant provisioning, password hashing included",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		PlanChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "saasbase_tenant_plan_changes_total",
			Help: "Subscription plan changes by target plan",
		}, []string{"plan"}),
	}
}

func (m *Metrics) IncrementProvisioned() {
	if m == nil {
		return
	}
	m.TenantsProvisioned.Inc()
}

func (m *Metrics) ObserveProvision(start time.Time) {
	if m == nil {
		return
	}
	m.ProvisionDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementPlanChange(plan string) {
	if m == nil {
		return
	}
	m.PlanChanges.WithLabelValues(plan).Inc()
}
