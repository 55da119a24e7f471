package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDomain indicates a state outside the region where the equations are defined.
	ErrDomain = errors.New("dynamo: state outside equation domain")

	// ErrInvalidConfig indicates a non-positive step or step count.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation config")

	// ErrDimensionMismatch indicates mismatched state and system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// DomainError reports a degenerate radial distance.
type DomainError struct {
	Radius float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("dynamo: degenerate state (r=%g must be > 0)", e.Radius)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
