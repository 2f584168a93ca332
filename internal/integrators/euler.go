package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// SemiImplicitEuler updates the velocity first and then advances the angle
// with the new velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "euler" }

func (e *SemiImplicitEuler) Step(p dynamo.Params, x dynamo.State, dt float64) dynamo.State {
	acc := p.Acceleration(x)
	vel := x.Velocity + dt*acc
	return dynamo.State{
		Angle:    x.Angle + dt*vel,
		Velocity: vel,
	}
}

// Euler is plain forward Euler: both components use the old state.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "explicit" }

func (e *Euler) Step(p dynamo.Params, x dynamo.State, dt float64) dynamo.State {
	acc := p.Acceleration(x)
	return dynamo.State{
		Angle:    x.Angle + dt*x.Velocity,
		Velocity: x.Velocity + dt*acc,
	}
}
