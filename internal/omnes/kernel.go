package omnes

import (
	"fmt"
	"math"
)

// zeroLimit is the |z| below which the tail row uses its z -> 0 limit.
const zeroLimit = 1e-10

// lqSum computes Σ_l (2l+1) P_l(u_i) Q_l(zeta) for every node u_i.
// q is scratch of length order.
func (f *Factor) lqSum(zeta float64, dst, q []float64) error {
	if err := f.q.ReQInto(q, zeta); err != nil {
		return err
	}
	for i := range dst {
		sum := 0.0
		pj := f.pju[i]
		for l, ql := range q {
			sum += pj[l] * ql
		}
		dst[i] = sum
	}
	return nil
}

// p fills dst with the quadrature-weighted kernel of interval iv at z,
// before the tan δ factor.
//
// For the tail, small |z| maps to |ζ| ~ 2a/|z|. Q_l there come from the
// downward recurrence and keep full relative precision until the highest
// ones underflow, which leaves a relative error of order 1/|ζ|. At
// |z| <= zeroLimit the analytic limit w_i/(π(1-u_i)) is used instead.
func (f *Factor) p(z float64, iv Interval, dst, q []float64) error {
	if !iv.Tail() {
		if err := f.lqSum(iv.Canonical(z), dst, q); err != nil {
			return err
		}
		for i := range dst {
			dst[i] *= -f.weights[i]
		}
		return nil
	}

	if math.Abs(z) <= zeroLimit {
		for i := range dst {
			dst[i] = f.pju[i][0] * f.weights[i] / (1 - f.rule.Nodes[i])
		}
		return nil
	}

	if err := f.lqSum(iv.Canonical(z), dst, q); err != nil {
		return err
	}
	scale := -2 * iv.Lower / z
	for i := range dst {
		dst[i] *= scale * f.weights[i] / (1 - f.rule.Nodes[i])
	}
	return nil
}

// kernel fills dst with row j of the collocation kernel at z: p(z, j)
// times tan δ at the interval's quadrature energies.
func (f *Factor) kernel(z float64, j int, dst, q []float64) error {
	if err := f.p(z, f.part.Interval(j), dst, q); err != nil {
		return err
	}
	tans := f.tans[j]
	for i := range dst {
		dst[i] *= tans[i]
	}
	return nil
}

// tanPhase returns tan δ(s), rejecting phases on the pole of the tangent.
func (f *Factor) tanPhase(s float64) (float64, error) {
	d := f.phase(s)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: delta(%g) = %g", ErrInvalidPhase, s, d)
	}
	if f.nearPole(d) {
		return 0, &PhaseError{S: s, Phase: d}
	}
	return math.Tan(d), nil
}

func (f *Factor) nearPole(d float64) bool {
	return math.Abs(math.Remainder(d-math.Pi/2, math.Pi)) < f.poleTol
}
