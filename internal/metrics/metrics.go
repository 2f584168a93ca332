// Package metrics accumulates running statistics from session ticks.
package metrics

import "github.com/san-kum/pendulab/internal/sim"

// Metric observes ticks and reduces them to a single value.
type Metric interface {
	Name() string
	Observe(s sim.Sample)
	Value() float64
	Reset()
}

// Set fans a tick out to several metrics.
type Set []Metric

// Observe matches sim.Observer so a Set can be attached to a session.
func (ms Set) Observe(s sim.Sample) {
	for _, m := range ms {
		m.Observe(s)
	}
}

func (ms Set) Reset() {
	for _, m := range ms {
		m.Reset()
	}
}

// Values returns name to value for every metric.
func (ms Set) Values() map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Standard is the metric set shown by the CLI.
func Standard(angleThreshold float64) Set {
	return Set{NewEnergy(), NewEnergyDrift(), NewStability(angleThreshold), NewRevolutions()}
}
