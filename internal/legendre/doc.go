// Package legendre provides the Legendre special functions used by the
// Omnès solver.
//
//   - [Polynomials]: P_0..P_n at a point by three-term recurrence
//   - [GaussLegendre]: nodes and weights of the n-point Gauss-Legendre rule
//   - [QEvaluator]: real part of the Legendre functions of the second kind Q_0..Q_n
//
// # Regimes
//
// Q_l is evaluated by one of three recursions depending on |z|:
//
//	|z| < 1           forward recurrence seeded with atanh(z)
//	1 <= |z| < 1.021  forward recurrence seeded with log|(1+z)/(1-z)|/2
//	|z| >= 1.021      hypergeometric series at the top index, then downward recurrence
//
// The series branch is capped; exceeding the cap returns [ErrNonConvergence].
package legendre
