package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration and rollout operations.
var (
	// ErrInvalidStep indicates a non-positive outer step or sub-step size.
	ErrInvalidStep = errors.New("dynamo: step size must be positive")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// StepError annotates a failure with the rollout step it occurred on.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
