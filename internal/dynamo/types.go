package dynamo

import (
	"fmt"
	"math"
)

// Gravity is the default gravitational acceleration in m/s².
const Gravity = 9.8

// State is the physical state of the pendulum.
type State struct {
	Angle    float64 // radians, normalized into (-π, π] by the integrator
	Velocity float64 // rad/s
}

func (s State) IsValid() bool {
	return isFinite(s.Angle) && isFinite(s.Velocity)
}

func (s State) String() string {
	return fmt.Sprintf("(θ=%.4f, ω=%.4f)", s.Angle, s.Velocity)
}

// Params are immutable for the duration of one run.
type Params struct {
	Damping float64 `yaml:"damping"`
	Length  float64 `yaml:"length"`
	Gravity float64 `yaml:"gravity,omitempty"`
}

// G returns the gravity in use, falling back to [Gravity] when unset. A zero
// Gravity therefore means Earth gravity, never weightlessness.
func (p Params) G() float64 {
	if p.Gravity == 0 {
		return Gravity
	}
	return p.Gravity
}

// OmegaSquared is the effective squared natural frequency g/l.
func (p Params) OmegaSquared() float64 {
	return p.G() / p.Length
}

// Acceleration is the angular acceleration -(g/l)·sin(θ) - c·ω.
func (p Params) Acceleration(s State) float64 {
	return -p.OmegaSquared()*math.Sin(s.Angle) - p.Damping*s.Velocity
}

// Energy is the mechanical energy per unit m·l²: ½·ω² − (g/l)·cos(θ).
func (p Params) Energy(s State) float64 {
	return 0.5*s.Velocity*s.Velocity - p.OmegaSquared()*math.Cos(s.Angle)
}

func (p Params) Validate() error {
	switch {
	case !isFinite(p.Length) || p.Length <= 0:
		return fmt.Errorf("length must be positive, got %v: %w", p.Length, ErrParameterBounds)
	case !isFinite(p.Damping) || p.Damping < 0:
		return fmt.Errorf("damping must be non-negative, got %v: %w", p.Damping, ErrParameterBounds)
	case !isFinite(p.Gravity) || p.Gravity < 0:
		return fmt.Errorf("gravity must be non-negative, got %v: %w", p.Gravity, ErrParameterBounds)
	}
	return nil
}

// Stepper advances a state by one fixed step without normalizing the angle.
type Stepper interface {
	Name() string
	Step(p Params, x State, dt float64) State
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
