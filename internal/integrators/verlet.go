package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

// Leapfrog is kick-drift-kick. The damping term makes the second kick
// evaluate the acceleration at the half-step velocity.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(p dynamo.Params, x dynamo.State, dt float64) dynamo.State {
	halfDt := dt * 0.5

	velHalf := x.Velocity + p.Acceleration(x)*halfDt
	angle := x.Angle + velHalf*dt

	mid := dynamo.State{Angle: angle, Velocity: velHalf}
	return dynamo.State{
		Angle:    angle,
		Velocity: velHalf + p.Acceleration(mid)*halfDt,
	}
}
