package integrators

import "github.com/san-kum/pendulab/internal/dynamo"

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

// derive returns (θ', ω') for the state.
func derive(p dynamo.Params, x dynamo.State) (float64, float64) {
	return x.Velocity, p.Acceleration(x)
}

func (r *RK4) Step(p dynamo.Params, x dynamo.State, dt float64) dynamo.State {
	k1a, k1v := derive(p, x)

	k2a, k2v := derive(p, dynamo.State{
		Angle:    x.Angle + dt*0.5*k1a,
		Velocity: x.Velocity + dt*0.5*k1v,
	})

	k3a, k3v := derive(p, dynamo.State{
		Angle:    x.Angle + dt*0.5*k2a,
		Velocity: x.Velocity + dt*0.5*k2v,
	})

	k4a, k4v := derive(p, dynamo.State{
		Angle:    x.Angle + dt*k3a,
		Velocity: x.Velocity + dt*k3v,
	})

	dt6 := dt / 6.0
	return dynamo.State{
		Angle:    x.Angle + dt6*(k1a+2*k2a+2*k3a+k4a),
		Velocity: x.Velocity + dt6*(k1v+2*k2v+2*k3v+k4v),
	}
}
