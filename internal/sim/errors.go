package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a non-positive dt or duration.
	ErrInvalidConfig = errors.New("sim: invalid run config")

	// ErrDiverged indicates a body reached a NaN or infinite transform.
	ErrDiverged = errors.New("sim: body state diverged (NaN or Inf detected)")
)

// RunError wraps an error with the frame it occurred on.
type RunError struct {
	Frame   int
	Time    float64
	Body    string
	Wrapped error
}

func (e *RunError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("frame %d (t=%.4f) body %s: %v", e.Frame, e.Time, e.Body, e.Wrapped)
	}
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
