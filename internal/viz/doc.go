// Package viz renders a pendulum session in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view with phase plot, pendulum stage and sidebar
//   - [BrailleSurface]: drawing surface backed by a Braille [Canvas]
//   - Theme selection with 3 built-in color schemes
//
// Scheduled ticks arrive as [RunMsg] values, so the simulation only ever
// advances on the Bubble Tea goroutine.
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	R      - Reset to initial state and parameters
//	Tab    - Select damping, length or gravity
//	Up/K   - Increase the selected parameter
//	Down/J - Decrease the selected parameter
//	T      - Cycle color themes
//	?      - Show help overlay
//
// A left click inside the phase plot restarts the run from that state.
package viz
