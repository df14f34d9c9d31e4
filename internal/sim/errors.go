package sim

import "fmt"

// Domain errors for the build/finalize/step pipeline.
var (
	// ErrValidation indicates a dangling or out-of-range entity reference
	// detected at finalize time.
	ErrValidation = fmt.Errorf("sim: invalid entity reference")

	// ErrConfiguration indicates an unknown or unavailable compute device.
	ErrConfiguration = fmt.Errorf("sim: invalid device configuration")

	// ErrInvalidState indicates a State whose array shapes do not match
	// its paired Model. Raised before any mutation.
	ErrInvalidState = fmt.Errorf("sim: state does not match model")
)

// StepError wraps an error with the step and simulation time at which
// it occurred.
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
