package legendre

import (
	"errors"
	"fmt"
)

var (
	// ErrOrder indicates a quadrature or recursion order below the supported minimum.
	ErrOrder = errors.New("legendre: invalid order")

	// ErrNonConvergence indicates the Q_l series did not reach its tolerance
	// within the configured number of terms.
	ErrNonConvergence = errors.New("legendre: series did not converge")
)

// ConvergenceError wraps ErrNonConvergence with the failing argument.
type ConvergenceError struct {
	Z     float64
	Index int
	Terms int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: z=%g index=%d after %d terms", ErrNonConvergence, e.Z, e.Index, e.Terms)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNonConvergence
}
