package quota

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejections *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "saasbase_quota_rejections_total",
			Help: "Creations rejected because the tenant plan limit was reached",
		}, []string{"resource"}),
	}
}

func (m *Metrics) IncRejection(resource Resource) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(string(resource)).Inc()
}
