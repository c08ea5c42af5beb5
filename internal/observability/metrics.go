package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glowup_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EventsPublished counts domain events by type and outcome.
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glowup_events_published_total",
		Help: "Total number of domain events handed to the event backend",
	}, []string{"type", "outcome"})

	// CacheLookups counts cache-aside lookups by key prefix and result.
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glowup_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"prefix", "result"})
)

// Collectors returns the application collectors for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{DatabaseQueryLatency, EventsPublished, CacheLookups}
}

const queryStartKey = "observability:query_start"

// InstrumentGORM registers callbacks that record query latency for every
// create, query, update, delete and raw statement.
func InstrumentGORM(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []struct {
		op     string
		before error
		after  error
	}{
		{"create", cb.Create().Before("gorm:create").Register("metrics:before_create", before),
			cb.Create().After("gorm:create").Register("metrics:after_create", after("create"))},
		{"query", cb.Query().Before("gorm:query").Register("metrics:before_query", before),
			cb.Query().After("gorm:query").Register("metrics:after_query", after("query"))},
		{"update", cb.Update().Before("gorm:update").Register("metrics:before_update", before),
			cb.Update().After("gorm:update").Register("metrics:after_update", after("update"))},
		{"delete", cb.Delete().Before("gorm:delete").Register("metrics:before_delete", before),
			cb.Delete().After("gorm:delete").Register("metrics:after_delete", after("delete"))},
		{"row", cb.Row().Before("gorm:row").Register("metrics:before_row", before),
			cb.Row().After("gorm:row").Register("metrics:after_row", after("row"))},
		{"raw", cb.Raw().Before("gorm:raw").Register("metrics:before_raw", before),
			cb.Raw().After("gorm:raw").Register("metrics:after_raw", after("raw"))},
	}
	for _, s := range steps {
		if s.before != nil {
			return s.before
		}
		if s.after != nil {
			return s.after
		}
	}
	return nil
}
