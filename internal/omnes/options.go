package omnes

import "go.uber.org/zap"

const (
	// DefaultOrder is the number of Gauss-Legendre nodes per interval.
	DefaultOrder = 34

	// DefaultPoleTolerance is how close δ may come to π/2 (mod π) before
	// tan δ is treated as divergent.
	DefaultPoleTolerance = 1e-8

	// DefaultRankTolerance is the relative singular value cutoff of the SVD solve.
	DefaultRankTolerance = 1e-15

	// MaxUnknowns bounds intervals × order so the dense system stays in memory.
	MaxUnknowns = 2048
)

type settings struct {
	order       int
	seriesTol   float64
	seriesTerms int
	poleTol     float64
	rankTol     float64
	logger      *zap.Logger
}

func defaultSettings() settings {
	return settings{
		order:   DefaultOrder,
		poleTol: DefaultPoleTolerance,
		rankTol: DefaultRankTolerance,
		logger:  zap.NewNop(),
	}
}

// Option configures a Factor.
type Option func(*settings)

// WithOrder sets the quadrature order per interval.
func WithOrder(n int) Option {
	return func(s *settings) { s.order = n }
}

// WithSeriesTolerance sets the convergence tolerance and term cap of the
// Q_l series. Non-positive values keep the legendre package defaults.
func WithSeriesTolerance(tol float64, maxTerms int) Option {
	return func(s *settings) {
		s.seriesTol = tol
		s.seriesTerms = maxTerms
	}
}

// WithPoleTolerance sets the distance from π/2 (mod π) at which δ is rejected.
func WithPoleTolerance(tol float64) Option {
	return func(s *settings) {
		if tol > 0 {
			s.poleTol = tol
		}
	}
}

// WithRankTolerance sets the relative singular value cutoff.
func WithRankTolerance(tol float64) Option {
	return func(s *settings) {
		if tol > 0 {
			s.rankTol = tol
		}
	}
}

// WithLogger attaches a logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
