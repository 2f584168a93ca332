package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

// Series holds one value per tick. It is not safe for concurrent use; attach
// it to a session whose ticks are serialized.
type Series struct {
	Dt       float64
	Angle    []float64
	Velocity []float64
	Energy   []float64
	Wraps    int
}

func NewSeries(dt float64) *Series {
	return &Series{Dt: dt}
}

// Observe appends a tick. Its signature matches sim.Observer.
func (s *Series) Observe(sample sim.Sample) {
	s.Angle = append(s.Angle, sample.State.Angle)
	s.Velocity = append(s.Velocity, sample.State.Velocity)
	s.Energy = append(s.Energy, sample.Energy)
	if sample.Wrapped {
		s.Wraps++
	}
}

func (s *Series) Len() int { return len(s.Angle) }

type Report struct {
	Samples        int
	Duration       float64
	DominantHz     float64
	CrossingHz     float64
	NaturalHz      float64
	DampedHz       float64
	InitialEnergy  float64
	FinalEnergy    float64
	MaxEnergyDrift float64
	Wraps          int
	PeakAngle      float64
	PeakVelocity   float64
}

// Analyze summarizes s. The frequency estimate uses the velocity signal,
// which stays continuous across angle wraps.
func Analyze(s *Series, p dynamo.Params) (Report, error) {
	n := s.Len()
	if n == 0 {
		return Report{}, fmt.Errorf("analyze: %w", ErrShortSeries)
	}

	r := Report{
		Samples:       n,
		Duration:      float64(n) * s.Dt,
		NaturalHz:     NaturalFrequency(p),
		DampedHz:      DampedFrequency(p),
		InitialEnergy: s.Energy[0],
		FinalEnergy:   s.Energy[n-1],
		Wraps:         s.Wraps,
	}

	for i := 0; i < n; i++ {
		r.PeakAngle = math.Max(r.PeakAngle, math.Abs(s.Angle[i]))
		r.PeakVelocity = math.Max(r.PeakVelocity, math.Abs(s.Velocity[i]))
		r.MaxEnergyDrift = math.Max(r.MaxEnergyDrift, math.Abs(s.Energy[i]-s.Energy[0]))
	}

	if period := ZeroCrossingPeriod(s.Velocity, s.Dt); period > 0 {
		r.CrossingHz = 1 / period
	}

	hz, err := DominantFrequency(s.Velocity, s.Dt)
	if err != nil && !errors.Is(err, ErrShortSeries) {
		return r, err
	}
	r.DominantHz = hz
	return r, nil
}
