// Package omnes solves for the Omnès function of a single elastic channel.
//
// Ω(s) is the analytic function whose phase along the unitarity cut equals a
// prescribed scattering phase δ(s). The dispersive integral equation for
// Re Ω is discretised by Gauss-Legendre collocation on a partition of the cut
// into finite intervals plus one semi-infinite tail, with the Cauchy kernel
// expanded in Legendre functions (Neumann's expansion):
//
//   - [Partition]: breakpoints s_th = b_0 < b_1 < ... < b_{N-1}
//   - [Factor]: owns the quadrature tables, the linear system and its solution
//
// # Example
//
//	part, _ := omnes.NewPartition(4*mpi*mpi, 0.5, 1.0, 2.0)
//	f, _ := omnes.New(part, delta, omnes.WithOrder(20))
//	residual, _ := f.Solve(0)
//	w, _ := f.Evaluate(0.55)
//
// # Thread Safety
//
// Solve is serialized internally. Evaluate may be called concurrently once
// the factor is solved.
package omnes
