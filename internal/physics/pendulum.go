package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

// Pendulum owns the live state of a single damped pendulum and advances it
// one fixed step per Update.
type Pendulum struct {
	params  dynamo.Params
	state   dynamo.State
	stepper dynamo.Stepper
	dt      float64
	steps   int
}

// NewPendulum validates params and dt. A nil stepper selects semi-implicit
// Euler. The initial angle is normalized into (-π, π].
func NewPendulum(params dynamo.Params, initial dynamo.State, dt float64, stepper dynamo.Stepper) (*Pendulum, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("dt must be positive, got %v: %w", dt, dynamo.ErrParameterBounds)
	}
	if !initial.IsValid() {
		return nil, fmt.Errorf("initial state %v: %w", initial, dynamo.ErrInvalidState)
	}
	if stepper == nil {
		stepper = integrators.NewSemiImplicitEuler()
	}

	initial.Angle, _ = WrapAngle(initial.Angle)

	return &Pendulum{
		params:  params,
		state:   initial,
		stepper: stepper,
		dt:      dt,
	}, nil
}

// Update advances by one step and reports whether the angle wrapped.
func (p *Pendulum) Update() (wrapped bool) {
	next := p.stepper.Step(p.params, p.state, p.dt)
	next.Angle, wrapped = WrapAngle(next.Angle)
	p.state = next
	p.steps++
	return wrapped
}

func (p *Pendulum) State() dynamo.State   { return p.state }
func (p *Pendulum) Params() dynamo.Params { return p.params }
func (p *Pendulum) Dt() float64           { return p.dt }
func (p *Pendulum) Steps() int            { return p.steps }
func (p *Pendulum) Stepper() string       { return p.stepper.Name() }

func (p *Pendulum) Energy() float64 {
	return p.params.Energy(p.state)
}

// WrapAngle maps a into (-π, π]. A single 2π shift covers every step a
// sane dt produces; anything further out is reduced with math.Remainder.
func WrapAngle(a float64) (float64, bool) {
	switch {
	case a <= -math.Pi:
		a += 2 * math.Pi
	case a > math.Pi:
		a -= 2 * math.Pi
	default:
		return a, false
	}

	if a <= -math.Pi || a > math.Pi {
		a = math.Remainder(a, 2*math.Pi)
		if a <= -math.Pi {
			a += 2 * math.Pi
		}
	}
	return a, true
}
