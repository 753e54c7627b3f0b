package main

import (
	"errors"
	"fmt"
)

// Domain errors. Typed errors carry enough numeric state (iteration index,
// last error value, offending coefficient) for the caller to decide whether
// to retry with a tighter dt or tolerance.
var (
	// ErrInvalidGridSpec indicates non-positive extents or point counts.
	ErrInvalidGridSpec = errors.New("gravsim: invalid grid spec")

	// ErrNotRelaxed indicates the potential was requested before the
	// relaxation solver produced it.
	ErrNotRelaxed = errors.New("gravsim: potential not relaxed yet")
)

// DivergentCoefficientError is returned when the screened-Poisson update
// denominator 2/dx^2 + 2/dy^2 - mu^2 is non-positive, which would flip the
// sign of every update or diverge outright.
type DivergentCoefficientError struct {
	Mu          float64
	Denominator float64
}

func (e *DivergentCoefficientError) Error() string {
	return fmt.Sprintf("gravsim: divergent relaxation coefficient: mu=%g gives denominator %g <= 0", e.Mu, e.Denominator)
}

// NonConvergenceError reports that relaxation hit the iteration cap before
// meeting tolerance. It is advisory: the solver still hands back the
// best-effort potential alongside this error.
type NonConvergenceError struct {
	Iterations int
	FinalError float64
	Tol        float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("gravsim: relaxation did not converge after %d iterations (error %.3e, tol %.3e)", e.Iterations, e.FinalError, e.Tol)
}

// DegenerateWavefunctionError is returned when a wave packet cannot be
// normalized because its discrete probability sum is zero, e.g. the width
// underflows on the given grid.
type DegenerateWavefunctionError struct {
	Sigma float64
}

func (e *DegenerateWavefunctionError) Error() string {
	return fmt.Sprintf("gravsim: degenerate wavefunction: zero norm for sigma=%g", e.Sigma)
}

// NumericalInstabilityError reports a non-finite or out-of-bound entropy
// value in the evolution trace. The integrator itself never checks for
// this; the trace is inspected after stepping.
type NumericalInstabilityError struct {
	Step  int
	Value float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("gravsim: numerical instability at step %d: entropy=%g", e.Step, e.Value)
}
