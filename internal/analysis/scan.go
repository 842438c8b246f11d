package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// ErrGrid is returned for grids with fewer than two points.
var ErrGrid = errors.New("analysis: grid needs at least two points")

// Evaluator is a solved Omnès factor.
type Evaluator interface {
	Evaluate(s float64) (complex128, error)
	Phase(s float64) float64
}

// Sample is Ω at one energy. Err is set when the evaluation failed, for
// example on a breakpoint or where δ crosses π/2.
type Sample struct {
	S     float64
	Omega complex128
	Phase float64
	Err   error
}

// Modulus returns |Ω|.
func (s Sample) Modulus() float64 { return cmplx.Abs(s.Omega) }

// Arg returns arg Ω in (-π, π].
func (s Sample) Arg() float64 { return cmplx.Phase(s.Omega) }

// Linspace returns n equally spaced energies from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrGrid, n)
	}
	if hi <= lo {
		return nil, fmt.Errorf("%w: empty range [%g, %g]", ErrGrid, lo, hi)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Scan evaluates f on every grid point.
func Scan(f Evaluator, grid []float64) []Sample {
	samples := make([]Sample, len(grid))
	for i, s := range grid {
		w, err := f.Evaluate(s)
		samples[i] = Sample{S: s, Omega: w, Phase: f.Phase(s), Err: err}
	}
	return samples
}

// Valid returns the samples that evaluated without error.
func Valid(samples []Sample) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Err == nil {
			out = append(out, s)
		}
	}
	return out
}

// Extract maps every valid sample through fn.
func Extract(samples []Sample, fn func(Sample) float64) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Err == nil {
			out = append(out, fn(s))
		}
	}
	return out
}

// Moduli returns |Ω| of the valid samples.
func Moduli(samples []Sample) []float64 {
	return Extract(samples, Sample.Modulus)
}

// Args returns arg Ω of the valid samples.
func Args(samples []Sample) []float64 {
	return Extract(samples, Sample.Arg)
}

// WatsonDeviation returns max |arg Ω − δ| reduced modulo π over the valid
// samples above threshold with Ω ≠ 0. It is zero when nothing qualifies.
func WatsonDeviation(samples []Sample, threshold float64) float64 {
	dev := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Err != nil || s.S <= threshold || s.Omega == 0 {
			continue
		}
		dev = append(dev, math.Abs(math.Remainder(s.Arg()-s.Phase, math.Pi)))
	}
	if len(dev) == 0 {
		return 0
	}
	return floats.Max(dev)
}
