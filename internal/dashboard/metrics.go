package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Update outcomes.
const (
	resultApplied = "applied"
	resultStale   = "stale"
	resultDropped = "dropped"
)

// Metrics are the engine's Prometheus instruments.
type Metrics struct {
	updates       *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	connected     prometheus.Gauge
	timelineLen   prometheus.Gauge
}

// NewMetrics creates the instruments on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monitor",
			Subsystem: "dashboard",
			Name:      "updates_total",
			Help:      "Updates seen by the reconciler by kind and result",
		}, []string{"kind", "result"}),
		fetchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monitor",
			Subsystem: "dashboard",
			Name:      "fetch_failures_total",
			Help:      "Failed REST fetches by endpoint",
		}, []string{"endpoint"}),
		connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "monitor",
			Subsystem: "dashboard",
			Name:      "push_connected",
			Help:      "1 while the push channel is connected",
		}),
		timelineLen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "monitor",
			Subsystem: "dashboard",
			Name:      "timeline_events",
			Help:      "Events held in the timeline",
		}),
	}
}
