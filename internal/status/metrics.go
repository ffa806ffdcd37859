package status

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink forwards every accepted status update to a counter keyed
// by destination state, and records time-to-terminal-state in a
// histogram when the update reaches Complete, NoSolution, or Error.
//
// Grounded on the Hola monorepo's pkg/metrics registration style:
// counters/histograms built with prometheus.NewCounterVec /
// prometheus.NewHistogramVec and registered once at construction.
type PrometheusSink struct {
	transitions    *prometheus.CounterVec
	timeToTerminal *prometheus.HistogramVec

	// startedAt is only ever touched from inside Registry.Publish, which
	// holds Registry's own mutex for the duration of the Sink.Publish call
	// (see the Sink interface doc); it needs no lock of its own.
	startedAt map[string]time.Time
}

// NewPrometheusSink builds a PrometheusSink and registers its collectors
// with reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "papermatch_status_transitions_total",
			Help: "Count of accepted configuration status transitions by destination state.",
		}, []string{"state"}),
		timeToTerminal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "papermatch_solve_duration_seconds",
			Help:    "Wall-clock time from Running to a terminal solve outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		startedAt: make(map[string]time.Time),
	}
	reg.MustRegister(s.transitions, s.timeToTerminal)
	return s
}

// Publish implements Sink.
func (s *PrometheusSink) Publish(u Update) {
	s.transitions.WithLabelValues(string(u.State)).Inc()

	switch u.State {
	case Running:
		s.startedAt[u.ConfigID] = u.At
	case Complete, NoSolution, Error:
		if start, ok := s.startedAt[u.ConfigID]; ok {
			s.timeToTerminal.WithLabelValues(string(u.State)).Observe(u.At.Sub(start).Seconds())
			delete(s.startedAt, u.ConfigID)
		}
	}
}
