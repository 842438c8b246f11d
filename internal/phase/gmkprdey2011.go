package phase

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// matchPoint is where the parameterisations hand over to the asymptotic continuation.
const matchPoint = 2.0164

// ErrUnknownParam indicates a parameter name the model does not define.
var ErrUnknownParam = errors.New("phase: unknown parameter")

// ErrUnknownWave indicates a partial wave the model does not provide.
var ErrUnknownWave = errors.New("phase: unknown partial wave")

// PWave holds the I=1 P-wave parameters.
type PWave struct {
	B0      float64
	B1      float64
	Lambda1 float64
	Lambda2 float64
	S0      float64
	N       float64
}

// DWave holds the I=0 D-wave parameters.
type DWave struct {
	B0  float64
	B1  float64
	Bh1 float64
	S0  float64
	Sh  float64
	N   float64
}

// GMKPRDEY2011 is the ππ phase model. Masses are in GeV, energies in GeV².
type GMKPRDEY2011 struct {
	MassPi  float64
	MassK   float64
	MassRho float64
	MassF2  float64

	P PWave
	D DWave
}

// DefaultGMKPRDEY2011 returns the model with its reference parameter set.
func DefaultGMKPRDEY2011() *GMKPRDEY2011 {
	return &GMKPRDEY2011{
		MassPi:  0.13957,
		MassK:   0.496,
		MassRho: 0.7736,
		MassF2:  1.2754,
		P: PWave{
			B0:      1.055,
			B1:      0.15,
			Lambda1: 1.57,
			Lambda2: -1.96,
			S0:      1.1025,
			N:       0.75,
		},
		D: DWave{
			B0:  12.47,
			B1:  10.12,
			Bh1: 43.7,
			S0:  1.1025,
			Sh:  2.1025,
			N:   10.0,
		},
	}
}

// Threshold returns the two-pion threshold 4 m_π².
func (g *GMKPRDEY2011) Threshold() float64 {
	return 4 * g.MassPi * g.MassPi
}

// ConformalW maps s <= s0 onto the real interval [-1, 1].
func ConformalW(s, s0 float64) float64 {
	a, b := math.Sqrt(s), math.Sqrt(s0-s)
	return (a - b) / (a + b)
}

// PWave returns δ_1^1(s).
func (g *GMKPRDEY2011) PWave(s float64) float64 {
	mpi2 := g.MassPi * g.MassPi
	mk2 := g.MassK * g.MassK
	sqrts2 := math.Sqrt(s) / 2

	switch {
	case s <= 4*mk2:
		mrho2 := g.MassRho * g.MassRho
		mpi3 := g.MassPi * mpi2
		k := math.Sqrt(s/4 - mpi2)
		k3 := k * k * k
		b := mpi3/mrho2/sqrts2 + g.P.B0 + g.P.B1*ConformalW(s, g.P.S0)
		// Two forms avoid dividing by zero at threshold and at s = m_ρ².
		if s <= 0.5 {
			return math.Atan(k3 / sqrts2 / (mrho2 - s) / b)
		}
		return math.Pi/2 - math.Atan(sqrts2/k3*(mrho2-s)*b)
	case s <= matchPoint:
		x := sqrts2/g.MassK - 1
		return g.PWave(4*mk2) + g.P.Lambda1*x + g.P.Lambda2*x*x
	default:
		return continuation(g.PWave(matchPoint), s, g.P.N)
	}
}

// DWave returns δ_2^0(s).
func (g *GMKPRDEY2011) DWave(s float64) float64 {
	mpi2 := g.MassPi * g.MassPi
	mf22 := g.MassF2 * g.MassF2
	sqrts2 := math.Sqrt(s) / 2
	k := math.Sqrt(s/4 - mpi2)
	k5 := k * k * k * k * k

	switch {
	case s <= g.D.S0:
		return math.Atan(k5 / sqrts2 / (mf22 - s) / mpi2 / (g.D.B0 + g.D.B1*ConformalW(s, g.D.S0)))
	case s <= matchPoint:
		bh0 := g.D.B0 + g.D.B1 - g.D.Bh1*ConformalW(g.D.S0, g.D.Sh)
		return math.Pi/2 - math.Atan(sqrts2/k5*(mf22-s)*mpi2*(bh0+g.D.Bh1*ConformalW(s, g.D.Sh)))
	default:
		return continuation(g.DWave(matchPoint), s, g.D.N)
	}
}

// continuation interpolates from δ(matchPoint) to π as s grows.
func continuation(deltaMatch, s, n float64) float64 {
	return math.Pi + (deltaMatch-math.Pi)*2/(1+math.Pow(s/matchPoint, n))
}

// Wave returns the phase function for "P1" or "D0".
func (g *GMKPRDEY2011) Wave(name string) (func(float64) float64, error) {
	switch name {
	case "P1", "p1", "P":
		return g.PWave, nil
	case "D0", "d0", "D":
		return g.DWave, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWave, name)
}

func (g *GMKPRDEY2011) params() map[string]*float64 {
	return map[string]*float64{
		"mass_pi":    &g.MassPi,
		"mass_k":     &g.MassK,
		"mass_rho":   &g.MassRho,
		"mass_f2":    &g.MassF2,
		"p1_b0":      &g.P.B0,
		"p1_b1":      &g.P.B1,
		"p1_lambda1": &g.P.Lambda1,
		"p1_lambda2": &g.P.Lambda2,
		"p1_s0":      &g.P.S0,
		"p1_n":       &g.P.N,
		"d0_b0":      &g.D.B0,
		"d0_b1":      &g.D.B1,
		"d0_bh1":     &g.D.Bh1,
		"d0_s0":      &g.D.S0,
		"d0_sh":      &g.D.Sh,
		"d0_n":       &g.D.N,
	}
}

// GetParams returns the current parameter values by name.
func (g *GMKPRDEY2011) GetParams() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range g.params() {
		out[k] = *v
	}
	return out
}

// SetParam overrides one parameter.
func (g *GMKPRDEY2011) SetParam(name string, value float64) error {
	p, ok := g.params()[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	*p = value
	return nil
}

// ParamNames returns the parameter names in sorted order.
func (g *GMKPRDEY2011) ParamNames() []string {
	names := make([]string, 0, 16)
	for k := range g.params() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Diagnostic is a labelled reference value of the model.
type Diagnostic struct {
	Label string
	Value float64
}

// Diagnostics evaluates the conformal variable and both phases at fixed energies.
func (g *GMKPRDEY2011) Diagnostics() []Diagnostic {
	return []Diagnostic{
		{"w_P1(s =  0.0)", ConformalW(0.0, g.P.S0)},
		{"w_P1(s =  1.0)", ConformalW(1.0, g.P.S0)},
		{"del_P1(s =  0.25)", g.PWave(0.25)},
		{"del_P1(s =  0.9)", g.PWave(0.9)},
		{"del_P1(s =  1.0)", g.PWave(1.0)},
		{"del_P1(s =  4.0)", g.PWave(4.0)},
		{"del_D0(s =  0.25)", g.DWave(0.25)},
		{"del_D0(s =  0.9)", g.DWave(0.9)},
		{"del_D0(s =  1.44)", g.DWave(1.44)},
		{"del_D0(s =  4.0)", g.DWave(4.0)},
	}
}
