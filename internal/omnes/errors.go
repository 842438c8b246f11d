package omnes

import (
	"errors"
	"fmt"
)

// Domain errors for Omnès factor operations.
var (
	// ErrConfiguration indicates an invalid partition, order or reference point.
	ErrConfiguration = errors.New("omnes: invalid configuration")

	// ErrNotSolved indicates Evaluate was called before a successful Solve.
	ErrNotSolved = errors.New("omnes: factor has not been solved")

	// ErrNearSingularPhase indicates tan δ diverges: δ is within tolerance of π/2 mod π.
	ErrNearSingularPhase = errors.New("omnes: phase too close to pi/2")

	// ErrInvalidPhase indicates the phase callback returned NaN or Inf.
	ErrInvalidPhase = errors.New("omnes: phase is not finite")

	// ErrBreakpoint indicates an evaluation point on a partition breakpoint,
	// where the Legendre expansion of the kernel is logarithmically singular.
	ErrBreakpoint = errors.New("omnes: point coincides with a breakpoint")

	// ErrSolve indicates the SVD of the collocation system failed.
	ErrSolve = errors.New("omnes: linear system could not be solved")
)

// PhaseError wraps ErrNearSingularPhase with the offending energy.
type PhaseError struct {
	S     float64
	Phase float64
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%v: delta(%g) = %.12g", ErrNearSingularPhase, e.S, e.Phase)
}

func (e *PhaseError) Unwrap() error {
	return ErrNearSingularPhase
}
