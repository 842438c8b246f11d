package legendre

import (
	"errors"
	"math"
	"testing"
)

func TestReQInsideCutIsAtanh(t *testing.T) {
	for _, z := range []float64{-0.999, -0.5, -1e-8, 0, 0.25, 0.8, 0.9999} {
		q, err := ReQ(z, 5)
		if err != nil {
			t.Fatal(err)
		}
		if q[0] != math.Atanh(z) {
			t.Errorf("Q_0(%g) = %.17g, expected atanh = %.17g", z, q[0], math.Atanh(z))
		}
	}
}

func TestReQRecurrenceInsideCut(t *testing.T) {
	z := 0.37
	q, err := ReQ(z, 15)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 15; i++ {
		fi := float64(i)
		lhs := (fi + 1) * q[i+1]
		rhs := (2*fi+1)*z*q[i] - fi*q[i-1]
		if math.Abs(lhs-rhs) > 1e-12 {
			t.Errorf("i=%d: %g != %g", i, lhs, rhs)
		}
	}
}

// closedForm returns Q_0, Q_1, Q_2 for |z| > 1.
func closedForm(z float64) [3]float64 {
	q0 := math.Log(math.Abs((1+z)/(1-z))) / 2
	q1 := z*q0 - 1
	q2 := (3*z*z-1)/2*q0 - 3*z/2
	return [3]float64{q0, q1, q2}
}

func TestReQBackwardMatchesClosedForm(t *testing.T) {
	for _, z := range []float64{1.5, 3, 12, -2, -40} {
		q, err := ReQ(z, 8)
		if err != nil {
			t.Fatalf("z=%g: %v", z, err)
		}
		expected := closedForm(z)
		for i, e := range expected {
			if math.Abs(q[i]-e) > 1e-10*math.Max(1e-3, math.Abs(e)) {
				t.Errorf("z=%g Q_%d: got %.15g, expected %.15g", z, i, q[i], e)
			}
		}
	}
}

func TestReQBackwardRecurrence(t *testing.T) {
	z := 2.2
	q, err := ReQ(z, 12)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 12; i++ {
		fi := float64(i)
		lhs := (fi + 1) * q[i+1]
		rhs := (2*fi+1)*z*q[i] - fi*q[i-1]
		if math.Abs(lhs-rhs) > 1e-10*math.Abs(q[i-1]) {
			t.Errorf("i=%d: %g != %g", i, lhs, rhs)
		}
	}
}

func TestReQBranchesAgreeNearThreshold(t *testing.T) {
	z := 1.05
	const n = 8

	series := make([]float64, n+1)
	if err := NewQEvaluator(0, 0).backward(series, z); err != nil {
		t.Fatal(err)
	}

	recurred := make([]float64, n+1)
	recurred[0] = logQ0(z)
	forward(recurred, z)

	for i := range series {
		if math.Abs(series[i]-recurred[i]) > 1e-7*math.Max(1e-2, math.Abs(series[i])) {
			t.Errorf("Q_%d(%g): series %.12g, forward %.12g", i, z, series[i], recurred[i])
		}
	}
}

func TestReQNarrowBandUsesLogForm(t *testing.T) {
	for _, z := range []float64{1.0001, 1.01, -1.02} {
		q, err := ReQ(z, 6)
		if err != nil {
			t.Fatal(err)
		}
		if q[0] != logQ0(z) {
			t.Errorf("Q_0(%g) = %g, expected %g", z, q[0], logQ0(z))
		}
		if math.IsNaN(q[6]) {
			t.Errorf("Q_6(%g) is NaN", z)
		}
	}
}

func TestReQLowOrderOutsideCut(t *testing.T) {
	q, err := ReQ(5, 1)
	if err != nil {
		t.Fatal(err)
	}
	e := closedForm(5)
	if math.Abs(q[0]-e[0]) > 1e-15 || math.Abs(q[1]-e[1]) > 1e-15 {
		t.Errorf("got %v, expected %v", q, e[:2])
	}
}

func TestReQLargeArgumentKeepsPrecision(t *testing.T) {
	// Leading terms of the asymptotic expansions in 1/z.
	for _, z := range []float64{1e4, -2e6} {
		q0 := 1/z + 1/(3*z*z*z)
		q1 := 1/(3*z*z) + 1/(5*z*z*z*z)
		for _, n := range []int{1, 2, 10} {
			q, err := ReQ(z, n)
			if err != nil {
				t.Fatalf("z=%g n=%d: %v", z, n, err)
			}
			if math.Abs(q[0]-q0) > 1e-14*math.Abs(q0) {
				t.Errorf("z=%g n=%d: Q_0 = %.17g, expected %.17g", z, n, q[0], q0)
			}
			if math.Abs(q[1]-q1) > 1e-12*q1 {
				t.Errorf("z=%g n=%d: Q_1 = %.17g, expected %.17g", z, n, q[1], q1)
			}
		}
	}
}

func TestReQNonConvergence(t *testing.T) {
	eval := QEvaluator{Tolerance: 1e-14, MaxTerms: 5}
	_, err := eval.ReQ(1.5, 4)
	if !errors.Is(err, ErrNonConvergence) {
		t.Fatalf("expected ErrNonConvergence, got %v", err)
	}
	var convErr *ConvergenceError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConvergenceError, got %T", err)
	}
	if convErr.Terms != 5 {
		t.Errorf("expected 5 terms, got %d", convErr.Terms)
	}
}

func TestReQNegativeIndex(t *testing.T) {
	if _, err := ReQ(0.5, -1); !errors.Is(err, ErrOrder) {
		t.Errorf("expected ErrOrder, got %v", err)
	}
}
