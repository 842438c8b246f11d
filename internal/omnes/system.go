package omnes

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// system holds the (n+1)×n collocation matrix and its scratch. It is owned
// by one Factor and reused across Solve calls.
type system struct {
	n    int
	a    *mat.Dense
	b    *mat.VecDense
	x    *mat.VecDense
	r    *mat.VecDense
	svd  mat.SVD
	rank int
}

func newSystem(n int) *system {
	return &system{
		n: n,
		a: mat.NewDense(n+1, n, nil),
		b: mat.NewVecDense(n+1, nil),
		x: mat.NewVecDense(n, nil),
		r: mat.NewVecDense(n+1, nil),
	}
}

// reset clears the matrix and sets the right-hand side to the unit
// normalization vector.
func (s *system) reset() {
	s.a.Zero()
	s.b.Zero()
	s.b.SetVec(s.n, 1)
}

// solve computes the least-squares solution x = A⁺b and returns ‖Ax - b‖₂.
func (s *system) solve(rankTol float64) (float64, error) {
	if ok := s.svd.Factorize(s.a, mat.SVDThin); !ok {
		return 0, fmt.Errorf("%w: SVD did not converge", ErrSolve)
	}
	s.rank = s.svd.Rank(rankTol)
	if s.rank == 0 {
		return 0, fmt.Errorf("%w: system has rank 0", ErrSolve)
	}
	s.svd.SolveVecTo(s.x, s.b, s.rank)

	s.r.MulVec(s.a, s.x)
	s.r.SubVec(s.r, s.b)
	return mat.Norm(s.r, 2), nil
}
