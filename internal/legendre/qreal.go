package legendre

import (
	"fmt"
	"math"
)

const (
	// DefaultSeriesTolerance is the relative size of the last series term at
	// which the backward branch stops summing.
	DefaultSeriesTolerance = 1e-14

	// DefaultSeriesTerms caps the backward branch series.
	DefaultSeriesTerms = 1000

	// backwardThreshold is where the series branch takes over from the
	// log-form forward recurrence. Closer to 1 the series converges too slowly.
	backwardThreshold = 1.021
)

// QEvaluator evaluates the real part of Q_0..Q_n on the principal branch.
// The zero value uses the default tolerance and term cap.
type QEvaluator struct {
	Tolerance float64
	MaxTerms  int
}

// NewQEvaluator returns an evaluator with the given series tolerance and cap.
// Non-positive arguments select the defaults.
func NewQEvaluator(tol float64, maxTerms int) QEvaluator {
	e := QEvaluator{Tolerance: tol, MaxTerms: maxTerms}
	if e.Tolerance <= 0 {
		e.Tolerance = DefaultSeriesTolerance
	}
	if e.MaxTerms <= 0 {
		e.MaxTerms = DefaultSeriesTerms
	}
	return e
}

// ReQ evaluates Q_0(z)..Q_n(z) with the default evaluator.
func ReQ(z float64, n int) ([]float64, error) {
	return NewQEvaluator(0, 0).ReQ(z, n)
}

// ReQ returns Re Q_0(z)..Re Q_n(z).
func (e QEvaluator) ReQ(z float64, n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: Q index %d", ErrOrder, n)
	}
	q := make([]float64, n+1)
	if err := e.ReQInto(q, z); err != nil {
		return nil, err
	}
	return q, nil
}

// ReQInto fills dst with Re Q_0(z)..Re Q_{len(dst)-1}(z).
func (e QEvaluator) ReQInto(dst []float64, z float64) error {
	if len(dst) == 0 {
		return nil
	}
	az := math.Abs(z)
	switch {
	case az < 1:
		dst[0] = math.Atanh(z)
		forward(dst, z)
	case az >= backwardThreshold && len(dst) > 2:
		return e.backward(dst, z)
	case az >= backwardThreshold:
		var buf [3]float64
		if err := e.backward(buf[:], z); err != nil {
			return err
		}
		copy(dst, buf[:])
	default:
		dst[0] = logQ0(z)
		forward(dst, z)
	}
	return nil
}

// logQ0 is Re Q_0 = log|(1+z)/(1-z)|/2, valid on both sides of the cut.
// Off the cut it equals atanh(1/z), which keeps full relative precision
// for large |z| where the ratio approaches 1.
func logQ0(z float64) float64 {
	if math.Abs(z) > 1 {
		return math.Atanh(1 / z)
	}
	return math.Log(math.Abs((1+z)/(1-z))) / 2
}

// forward runs the upward recurrence from dst[0].
func forward(dst []float64, z float64) {
	if len(dst) < 2 {
		return
	}
	dst[1] = z*dst[0] - 1
	for i := 2; i < len(dst); i++ {
		fi := float64(i)
		dst[i] = (z*dst[i-1]*(2*fi-1) - dst[i-2]*(fi-1)) / fi
	}
}

// backward seeds Q_{n-1} and Q_n from their hypergeometric series and
// recurses down to Q_1, avoiding the cancellation in zQ_0 - 1 at large |z|.
// Requires n >= 2.
func (e QEvaluator) backward(dst []float64, z float64) error {
	n := len(dst) - 1
	fn := float64(n)
	tol, maxTerms := e.Tolerance, e.MaxTerms
	if tol <= 0 {
		tol = DefaultSeriesTolerance
	}
	if maxTerms <= 0 {
		maxTerms = DefaultSeriesTerms
	}

	// Leading factors l! / ((2l+1)!! z^(l+1)) for l = n-1 and l = n.
	lead := 1 / z
	leadPrev := 1.0
	for i := 1; i <= n; i++ {
		fi := float64(i)
		lead *= fi / z / (2*fi + 1)
		if i == n-1 {
			leadPrev = lead
		}
	}

	z2 := z * z
	s1, err := series(z, n-1, maxTerms, tol, func(k float64) float64 {
		return (fn/2 + k - 1) * (k + (fn-1)/2) / (z2 * k * (fn + k - 0.5))
	})
	if err != nil {
		return err
	}
	dst[n-1] = s1 * leadPrev

	s2, err := series(z, n, maxTerms, tol, func(k float64) float64 {
		return ((fn+1)/2 + k - 1) * (k + fn/2) / (z2 * k * (fn + 1 + k - 0.5))
	})
	if err != nil {
		return err
	}
	dst[n] = s2 * lead

	for i := n; i >= 3; i-- {
		fi := float64(i)
		dst[i-2] = ((2*fi-1)*z*dst[i-1] - fi*dst[i]) / (fi - 1)
	}
	dst[0] = logQ0(z)
	return nil
}

// series sums 1 + Σ_k Π_{j<=k} ratio(j) until the last term is below tol
// relative to the sum.
func series(z float64, index, maxTerms int, tol float64, ratio func(k float64) float64) (float64, error) {
	sum, term := 1.0, 1.0
	for k := 1; k <= maxTerms; k++ {
		term *= ratio(float64(k))
		sum += term
		if math.Abs(term/sum) < tol {
			return sum, nil
		}
	}
	return 0, &ConvergenceError{Z: z, Index: index, Terms: maxTerms}
}
