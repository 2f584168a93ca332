package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidLimit indicates a non-positive or non-finite coordinate limit.
	ErrInvalidLimit = errors.New("dynamo: coordinate limit must be positive and finite")

	// ErrNotStarted indicates an operation on a session that was never started.
	ErrNotStarted = errors.New("dynamo: simulation not started")

	// ErrUnknownStepper indicates an integrator name with no registered stepper.
	ErrUnknownStepper = errors.New("dynamo: unknown integrator")

	// ErrUnknownParam indicates a parameter name the pendulum does not have.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// SimError wraps an error with the tick at which it happened.
type SimError struct {
	Tick    int
	State   State
	Wrapped error
}

func (e *SimError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
