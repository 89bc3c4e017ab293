package usecasees

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "copytrading"

type Metrics struct {
	runs          prometheus.Counter
	runDuration   prometheus.Histogram
	outcomes      *prometheus.CounterVec
	brokerLatency prometheus.Histogram
	inFlight      prometheus.Gauge
	queueDepth    prometheus.Gauge
	queueDropped  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replication_runs_total",
			Help:      "Replication runs started.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "replication_run_duration_seconds",
			Help:      "Wall time of a replication run.",
			Buckets:   prometheus.DefBuckets,
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replication_outcomes_total",
			Help:      "Follower items by terminal status.",
		}, []string{"status"}),
		brokerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "broker_place_order_seconds",
			Help:      "Latency of successful brokerage order placements.",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "broker_calls_in_flight",
			Help:      "Brokerage order calls currently in flight.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "replication_queue_depth",
			Help:      "Master orders waiting for replication.",
		}),
		queueDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replication_queue_dropped_total",
			Help:      "Master orders refused because the queue was full.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.runs, m.runDuration, m.outcomes, m.brokerLatency, m.inFlight, m.queueDepth, m.queueDropped)
	}

	return m
}
