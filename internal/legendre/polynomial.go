package legendre

import (
	"fmt"
	"math"
)

const (
	newtonMaxIter = 100
	newtonTol     = 1e-15
)

// Rule is a Gauss-Legendre quadrature rule on [-1, 1].
// Nodes are ascending and symmetric about 0.
type Rule struct {
	Nodes   []float64
	Weights []float64
}

// Order returns the number of nodes.
func (r *Rule) Order() int { return len(r.Nodes) }

// Integrate applies the rule to f on [-1, 1].
func (r *Rule) Integrate(f func(float64) float64) float64 {
	sum := 0.0
	for i, x := range r.Nodes {
		sum += r.Weights[i] * f(x)
	}
	return sum
}

// Polynomials returns P_0(z)..P_n(z).
func Polynomials(z float64, n int) []float64 {
	if n < 0 {
		return nil
	}
	p := make([]float64, n+1)
	PolynomialsInto(p, z)
	return p
}

// PolynomialsInto fills dst with P_0(z)..P_{len(dst)-1}(z).
func PolynomialsInto(dst []float64, z float64) {
	if len(dst) == 0 {
		return
	}
	dst[0] = 1
	if len(dst) == 1 {
		return
	}
	dst[1] = z
	for i := 2; i < len(dst); i++ {
		fi := float64(i)
		dst[i] = (z*dst[i-1]*(2*fi-1) - dst[i-2]*(fi-1)) / fi
	}
}

// pair returns P_n(z) and P_{n-1}(z).
func pair(z float64, n int) (float64, float64) {
	prev, cur := 1.0, z
	if n == 0 {
		return 1, 0
	}
	for i := 2; i <= n; i++ {
		fi := float64(i)
		prev, cur = cur, (z*cur*(2*fi-1)-prev*(fi-1))/fi
	}
	return cur, prev
}

// GaussLegendre computes the n-point rule. Nodes are the zeros of P_n found
// by Newton iteration; the weights are 2(1-x²)/((n+1)² P_{n+1}(x)²).
func GaussLegendre(n int) (*Rule, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: gauss-legendre order %d", ErrOrder, n)
	}

	nodes := make([]float64, n)
	half := n / 2
	for i := 0; i < half; i++ {
		x := -math.Cos(math.Pi * (float64(i) + 0.75) / (float64(n) + 0.5))
		for iter := 0; iter < newtonMaxIter; iter++ {
			pn, pn1 := pair(x, n)
			dp := float64(n) * (x*pn - pn1) / (x*x - 1)
			dx := pn / dp
			x -= dx
			if math.Abs(dx) < newtonTol {
				break
			}
		}
		nodes[i] = x
		nodes[n-1-i] = -x
	}
	if n%2 == 1 {
		nodes[half] = 0
	}

	weights := make([]float64, n)
	np1 := float64(n + 1)
	for i := 0; i <= (n-1)/2; i++ {
		x := nodes[i]
		p, _ := pair(x, n+1)
		w := 2 * (1 - x*x) / (np1 * np1 * p * p)
		weights[i] = w
		weights[n-1-i] = w
	}

	return &Rule{Nodes: nodes, Weights: weights}, nil
}
