package omnes

import (
	"fmt"
	"math"
)

// Interval is one sub-domain of the cut. The last interval of a partition
// has Upper = +Inf.
type Interval struct {
	Lower float64
	Upper float64
}

// Tail reports whether the interval is semi-infinite.
func (iv Interval) Tail() bool {
	return math.IsInf(iv.Upper, 1)
}

// Energy maps a canonical coordinate u in (-1, 1) to an energy in the interval.
func (iv Interval) Energy(u float64) float64 {
	if iv.Tail() {
		return 2 * iv.Lower / (1 - u)
	}
	return (iv.Lower + iv.Upper + (iv.Upper-iv.Lower)*u) / 2
}

// Canonical maps an energy z to the canonical coordinate of the interval.
// For the tail this is 1 - 2a/z, which diverges at z = 0.
func (iv Interval) Canonical(z float64) float64 {
	if iv.Tail() {
		return 1 - 2*iv.Lower/z
	}
	return (2*z - iv.Lower - iv.Upper) / (iv.Upper - iv.Lower)
}

// Partition is an immutable, strictly increasing set of breakpoints.
type Partition struct {
	breaks []float64
}

// NewPartition validates the breakpoints. The first is the threshold; the
// last opens the semi-infinite tail and must be positive.
func NewPartition(breaks ...float64) (*Partition, error) {
	if len(breaks) == 0 {
		return nil, fmt.Errorf("%w: partition needs at least one breakpoint", ErrConfiguration)
	}
	for i, b := range breaks {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, fmt.Errorf("%w: breakpoint %d is not finite", ErrConfiguration, i)
		}
		if i > 0 && b <= breaks[i-1] {
			return nil, fmt.Errorf("%w: breakpoints not strictly increasing at %d (%g <= %g)",
				ErrConfiguration, i, b, breaks[i-1])
		}
	}
	if last := breaks[len(breaks)-1]; last <= 0 {
		return nil, fmt.Errorf("%w: tail must start at positive energy, got %g", ErrConfiguration, last)
	}

	p := &Partition{breaks: make([]float64, len(breaks))}
	copy(p.breaks, breaks)
	return p, nil
}

// Len returns the number of intervals, including the tail.
func (p *Partition) Len() int { return len(p.breaks) }

// Threshold returns the lowest breakpoint, where the unitarity cut opens.
func (p *Partition) Threshold() float64 { return p.breaks[0] }

// Breakpoints returns a copy of the breakpoints.
func (p *Partition) Breakpoints() []float64 {
	out := make([]float64, len(p.breaks))
	copy(out, p.breaks)
	return out
}

// Interval returns the j-th interval.
func (p *Partition) Interval(j int) Interval {
	if j == len(p.breaks)-1 {
		return Interval{Lower: p.breaks[j], Upper: math.Inf(1)}
	}
	return Interval{Lower: p.breaks[j], Upper: p.breaks[j+1]}
}

// IsBreakpoint reports whether s equals one of the breakpoints.
func (p *Partition) IsBreakpoint(s float64) bool {
	for _, b := range p.breaks {
		if s == b {
			return true
		}
	}
	return false
}

// FirstUpper returns the end of the first interval, +Inf for a single-interval partition.
func (p *Partition) FirstUpper() float64 {
	return p.Interval(0).Upper
}
