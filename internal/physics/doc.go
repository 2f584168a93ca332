// Package physics provides the stateful damped pendulum.
//
// [Pendulum] owns the angle and angular velocity and advances them with a
// [dynamo.Stepper], by default semi-implicit Euler:
//
//	acc    = -(g/l)·sin(θ) - c·ω
//	ω     += dt·acc
//	θ     += dt·ω
//
// After every step the angle is normalized into (-π, π]. Update reports the
// wrap so that a phase trace can break its polyline instead of drawing a
// line across the plot.
//
// # Energy
//
// With zero damping the mechanical energy ½·ω² − (g/l)·cos(θ) is not
// conserved exactly by the default stepper, but its drift stays bounded:
//
//	p, _ := physics.NewPendulum(params, x0, 0.1, nil)
//	e0 := p.Energy()
//	p.Update()
//	drift := p.Energy() - e0
package physics
