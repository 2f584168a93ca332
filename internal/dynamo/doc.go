// Package dynamo provides the core types shared by the pendulum simulation.
//
// The package defines the physical state and parameters of a damped pendulum
// and the numerical stepping contract:
//
//   - [State]: angle (rad) and angular velocity (rad/s)
//   - [Params]: damping constant, rod length and gravity
//   - [Stepper]: one fixed-size integration step of the equation of motion
//
// # Equation of Motion
//
//	θ'' + c·θ' + (g/l)·sin(θ) = 0
//
// # Example
//
//	p := dynamo.Params{Damping: 0.5, Length: 5}
//	if err := p.Validate(); err != nil {
//	    return err
//	}
//	acc := p.Acceleration(dynamo.State{Angle: 2, Velocity: 2})
package dynamo
