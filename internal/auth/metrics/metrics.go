package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes used as the result label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultLocked  = "locked"
)

// Metrics holds Prometheus collectors for auth operations.
type Metrics struct {
	LoginAttempts *prometheus.CounterVec
	LoginDuration prometheus.Histogram
	Lockouts      prometheus.Counter
	Logouts       prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "saasbase_login_attempts_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		LoginDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "saasbase_login_duration_seconds",
			Help:    "Duration of login handling, password verification included",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Lockouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "saasbase_login_lockouts_total",
			Help: "Identifiers locked after repeated login failures",
		}),
		Logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "saasbase_logouts_total",
			Help: "Logout acknowledgements",
		}),
	}
}

func (m *Metrics) ObserveLogin(result string, start time.Time) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
	m.LoginDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementLockouts() {
	if m == nil {
		return
	}
	m.Lockouts.Inc()
}

func (m *Metrics) IncrementLogouts() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}
