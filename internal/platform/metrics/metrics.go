package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide infrastructure gauges.
type Metrics struct {
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge
	DBWaitCount       prometheus.Gauge
	AuditMirrorErrors prometheus.Counter
	RedisConns        *prometheus.GaugeVec
	RedisPoolEvents   *prometheus.CounterVec
}

// New creates and registers the infrastructure metrics.
func New() *Metrics {
	return &Metrics{
		DBOpenConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "saasbase_db_open_connections",
			Help: "Number of established database connections",
		}),
		DBInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "saasbase_db_in_use_connections",
			Help: "Number of database connections currently in use",
		}),
		DBIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "saasbase_db_idle_connections",
			Help: "Number of idle database connections",
		}),
		DBWaitCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "saasbase_db_wait_count",
			Help: "Total number of connections waited for",
		}),
		AuditMirrorErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "saasbase_audit_mirror_errors_total",
			Help: "Audit entries that could not be mirrored to Kafka",
		}),
		RedisConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "saasbase_redis_pool_conns",
			Help: "Redis pool connections by state",
		}, []string{"state"}),
		RedisPoolEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "saasbase_redis_pool_events_total",
			Help: "Redis pool hits, misses, timeouts and stale connection removals",
		}, []string{"event"}),
	}
}

// RecordDBStats copies a pool snapshot into the gauges.
func (m *Metrics) RecordDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(stats.OpenConnections))
	m.DBInUse.Set(float64(stats.InUse))
	m.DBIdle.Set(float64(stats.Idle))
	m.DBWaitCount.Set(float64(stats.WaitCount))
}

// IncrementAuditMirrorErrors counts a failed Kafka mirror publish.
func (m *Metrics) IncrementAuditMirrorErrors() {
	if m == nil {
		return
	}
	m.AuditMirrorErrors.Inc()
}

// RecordRedisPool sets the connection gauges and adds the event increments
// observed since the previous sample.
func (m *Metrics) RecordRedisPool(total, idle uint32, events map[string]uint32) {
	if m == nil {
		return
	}
	m.RedisConns.WithLabelValues("total").Set(float64(total))
	m.RedisConns.WithLabelValues("idle").Set(float64(idle))
	for event, n := range events {
		if n > 0 {
			m.RedisPoolEvents.WithLabelValues(event).Add(float64(n))
		}
	}
}
