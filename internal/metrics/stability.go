package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/sim"
)

// Stability is the fraction of ticks with |angle| at or below threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample sim.Sample) {
	s.samples++
	if math.Abs(sample.State.Angle) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Revolutions counts angle wraps, i.e. passes over the top.
type Revolutions struct {
	wraps int
}

func NewRevolutions() *Revolutions { return &Revolutions{} }

func (r *Revolutions) Name() string { return "revolutions" }

func (r *Revolutions) Observe(s sim.Sample) {
	if s.Wrapped {
		r.wraps++
	}
}

func (r *Revolutions) Value() float64 { return float64(r.wraps) }

func (r *Revolutions) Reset() { r.wraps = 0 }
