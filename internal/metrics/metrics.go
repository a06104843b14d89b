// Package metrics holds the prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Settlement outcomes recorded by SettlementsTotal.
const (
	OutcomeSettled  = "settled"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Metrics groups the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	SplitsCreated    *prometheus.CounterVec
	SettlementsTotal *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SplitsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabout",
			Name:      "splits_created_total",
			Help:      "Splits recorded, by split type.",
		}, []string{"split_type"}),
		SettlementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabout",
			Name:      "settlements_total",
			Help:      "Attempts to mark a participant share as settled, by outcome.",
		}, []string{"outcome"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tabout",
			Name:      "rpc_duration_seconds",
			Help:      "Latency of RPC handlers, by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.SplitsCreated, m.SettlementsTotal, m.RPCDuration)
	return m
}

// SplitCreated counts a newly recorded split.
func (m *Metrics) SplitCreated(splitType string) {
	if m == nil {
		return
	}
	m.SplitsCreated.WithLabelValues(splitType).Inc()
}

// Settlement counts a settlement attempt with the given outcome.
func (m *Metrics) Settlement(outcome string) {
	if m == nil {
		return
	}
	m.SettlementsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRPC records how long a procedure took.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(seconds)
}
