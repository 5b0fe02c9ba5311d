package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var IndexDriftCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "site_store",
	Subsystem: "repository",
	Name:      "index_drift_total",
	Help:      "ids found in an index whose hash record is missing or unreadable",
}, []string{"entity", "index"})

var TxConflictCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "site_store",
	Subsystem: "repository",
	Name:      "tx_conflicts_total",
}, []string{"entity", "op"})

var OpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "site_store",
	Subsystem: "repository",
	Name:      "op_duration_seconds",
	Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
}, []string{"entity", "op"})

// Collectors 供 main 注册到 prometheus
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{IndexDriftCount, TxConflictCount, OpDuration}
}

func observe(entity, op string, start time.Time) {
	OpDuration.WithLabelValues(entity, op).Observe(time.Since(start).Seconds())
}
