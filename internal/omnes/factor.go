package omnes

import (
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/omnes/internal/legendre"
	"go.uber.org/zap"
)

// Phase is an elastic scattering phase δ(s) in radians, defined from the
// threshold upwards.
type Phase func(s float64) float64

// Factor is the Omnès function for one phase and one partition.
// It is created unsolved; Solve fixes the normalization and must succeed
// before Evaluate.
type Factor struct {
	mu sync.RWMutex

	part    *Partition
	phase   Phase
	order   int
	rule    *legendre.Rule
	q       legendre.QEvaluator
	poleTol float64
	rankTol float64
	logger  *zap.Logger

	weights  []float64   // w_i / π
	pju      [][]float64 // (2l+1) P_l(u_i), indexed [i][l]
	energies [][]float64 // collocation energies, indexed [interval][node]
	tans     [][]float64 // tan δ at the collocation energies

	sys       *system
	coeff     []float64
	residual  float64
	reference float64
	solved    bool
}

// New builds the quadrature tables for the partition and evaluates the phase
// at every collocation energy.
func New(part *Partition, phase Phase, opts ...Option) (*Factor, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	if part == nil {
		return nil, fmt.Errorf("%w: nil partition", ErrConfiguration)
	}
	if phase == nil {
		return nil, fmt.Errorf("%w: nil phase", ErrConfiguration)
	}
	if cfg.order < 1 {
		return nil, fmt.Errorf("%w: quadrature order %d", ErrConfiguration, cfg.order)
	}
	if n := part.Len() * cfg.order; n > MaxUnknowns {
		return nil, fmt.Errorf("%w: %d unknowns exceeds %d", ErrConfiguration, n, MaxUnknowns)
	}

	rule, err := legendre.GaussLegendre(cfg.order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	f := &Factor{
		part:    part,
		phase:   phase,
		order:   cfg.order,
		rule:    rule,
		q:       legendre.NewQEvaluator(cfg.seriesTol, cfg.seriesTerms),
		poleTol: cfg.poleTol,
		rankTol: cfg.rankTol,
		logger:  cfg.logger,
		weights: make([]float64, cfg.order),
		pju:     make([][]float64, cfg.order),
	}

	for i, u := range rule.Nodes {
		f.weights[i] = rule.Weights[i] / math.Pi
		f.pju[i] = legendre.Polynomials(u, cfg.order-1)
		for l := range f.pju[i] {
			f.pju[i][l] *= float64(2*l + 1)
		}
	}

	f.energies = make([][]float64, part.Len())
	f.tans = make([][]float64, part.Len())
	for j := 0; j < part.Len(); j++ {
		iv := part.Interval(j)
		f.energies[j] = make([]float64, cfg.order)
		f.tans[j] = make([]float64, cfg.order)
		for i, u := range rule.Nodes {
			s := iv.Energy(u)
			t, err := f.tanPhase(s)
			if err != nil {
				return nil, err
			}
			f.energies[j][i] = s
			f.tans[j][i] = t
		}
	}

	f.sys = newSystem(part.Len() * cfg.order)

	f.logger.Debug("omnes factor constructed",
		zap.Int("intervals", part.Len()),
		zap.Int("order", cfg.order),
		zap.Float64("threshold", part.Threshold()))

	return f, nil
}

// Solve assembles the collocation system (I - K)x = 0 together with the
// normalization Ω(reference) = 1, solves it by SVD least squares and returns
// the residual ‖Ax - b‖₂. The residual is informational; judging it is up to
// the caller.
func (f *Factor) Solve(reference float64) (float64, error) {
	if err := f.checkReference(reference); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.sys.n
	row := make([]float64, f.order)
	q := make([]float64, f.order)

	f.sys.reset()
	for i := 0; i < n; i++ {
		s := f.energies[i/f.order][i%f.order]
		for j := 0; j < f.part.Len(); j++ {
			if err := f.kernel(s, j, row, q); err != nil {
				return 0, err
			}
			for k, v := range row {
				f.sys.a.Set(i, j*f.order+k, -v)
			}
		}
		f.sys.a.Set(i, i, f.sys.a.At(i, i)+1)
	}

	for j := 0; j < f.part.Len(); j++ {
		if err := f.kernel(reference, j, row, q); err != nil {
			return 0, err
		}
		for k, v := range row {
			f.sys.a.Set(n, j*f.order+k, v)
		}
	}

	residual, err := f.sys.solve(f.rankTol)
	if err != nil {
		return 0, err
	}

	if f.coeff == nil {
		f.coeff = make([]float64, n)
	}
	for i := range f.coeff {
		f.coeff[i] = f.sys.x.AtVec(i)
	}
	f.residual = residual
	f.reference = reference
	f.solved = true

	f.logger.Debug("omnes system solved",
		zap.Int("unknowns", n),
		zap.Int("rank", f.sys.rank),
		zap.Float64("reference", reference),
		zap.Float64("residual", residual))

	return residual, nil
}

// checkReference accepts finite points at or below the end of the first
// interval that are not breakpoints.
func (f *Factor) checkReference(s float64) error {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("%w: reference point %g is not finite", ErrConfiguration, s)
	}
	if f.part.IsBreakpoint(s) {
		return fmt.Errorf("%w: reference point %g: %v", ErrConfiguration, s, ErrBreakpoint)
	}
	if upper := f.part.FirstUpper(); s > upper {
		return fmt.Errorf("%w: reference point %g above first interval end %g", ErrConfiguration, s, upper)
	}
	return nil
}

// RealPart returns the reconstruction Σ kernel(s)·x, which is Re Ω(s) below
// threshold and Re Ω(s) on the upper lip of the cut above it.
func (f *Factor) RealPart(s float64) (float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.solved {
		return 0, ErrNotSolved
	}
	return f.realPart(s)
}

func (f *Factor) realPart(s float64) (float64, error) {
	if f.part.IsBreakpoint(s) {
		return 0, fmt.Errorf("%w: s=%g", ErrBreakpoint, s)
	}
	row := make([]float64, f.order)
	q := make([]float64, f.order)
	res := 0.0
	for j := 0; j < f.part.Len(); j++ {
		if err := f.kernel(s, j, row, q); err != nil {
			return 0, err
		}
		c := f.coeff[j*f.order : (j+1)*f.order]
		for k, v := range row {
			res += v * c[k]
		}
	}
	return res, nil
}

// Evaluate returns Ω(s) on the upper lip of the cut. Above threshold the
// phase of the result is δ(s) mod π (Watson's theorem); below it Ω is real.
func (f *Factor) Evaluate(s float64) (complex128, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.solved {
		return 0, ErrNotSolved
	}

	if s > f.part.Threshold() {
		t, err := f.tanPhase(s)
		if err != nil {
			return 0, err
		}
		re, err := f.realPart(s)
		if err != nil {
			return 0, err
		}
		return complex(re, re*t), nil
	}

	re, err := f.realPart(s)
	if err != nil {
		return 0, err
	}
	return complex(re, 0), nil
}

// Solved reports whether Solve has succeeded.
func (f *Factor) Solved() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.solved
}

// Residual returns the residual of the last successful Solve.
func (f *Factor) Residual() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.residual
}

// Reference returns the normalization point of the last successful Solve.
func (f *Factor) Reference() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reference
}

// Coefficients returns a copy of the solution vector, Re Ω at the
// collocation points grouped by interval. Nil before Solve.
func (f *Factor) Coefficients() []float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.solved {
		return nil
	}
	out := make([]float64, len(f.coeff))
	copy(out, f.coeff)
	return out
}

// CollocationPoints returns the collocation energies grouped by interval.
func (f *Factor) CollocationPoints() []float64 {
	out := make([]float64, 0, f.part.Len()*f.order)
	for _, e := range f.energies {
		out = append(out, e...)
	}
	return out
}

// Order returns the quadrature order per interval.
func (f *Factor) Order() int { return f.order }

// Partition returns the interval partition.
func (f *Factor) Partition() *Partition { return f.part }

// Phase returns δ(s) from the phase callback.
func (f *Factor) Phase(s float64) float64 { return f.phase(s) }
