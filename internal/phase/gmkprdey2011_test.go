package phase

import (
	"errors"
	"math"
	"testing"
)

func TestDiagnosticsReferenceValues(t *testing.T) {
	const eps = 1e-5
	expected := []float64{
		-1.0,     // w(s = 0)
		0.514972, // w(s = 1)
		0.099257, // del_P1(s = 0.25)
		2.614059, // del_P1(s = 0.9)
		2.693794, // del_P1(s = 1.0)
		3.030938, // del_P1(s = 4.0)
		0.006052, // del_D0(s = 0.25)
		0.175553, // del_D0(s = 0.9)
		0.803720, // del_D0(s = 1.44)
		3.140443, // del_D0(s = 4.0)
	}

	diags := DefaultGMKPRDEY2011().Diagnostics()
	if len(diags) != len(expected) {
		t.Fatalf("expected %d diagnostics, got %d", len(expected), len(diags))
	}
	for i, d := range diags {
		if math.Abs(d.Value-expected[i]) > eps {
			t.Errorf("%s: got %.6f, expected %.6f", d.Label, d.Value, expected[i])
		}
	}
}

func TestPWaveContinuityAcrossBranches(t *testing.T) {
	g := DefaultGMKPRDEY2011()
	for _, s := range []float64{0.5, 4 * g.MassK * g.MassK, matchPoint} {
		below := g.PWave(s - 1e-9)
		above := g.PWave(s + 1e-9)
		if math.Abs(below-above) > 1e-6 {
			t.Errorf("s=%g: jump from %g to %g", s, below, above)
		}
	}
}

func TestPWavePassesThroughRhoPole(t *testing.T) {
	g := DefaultGMKPRDEY2011()
	mrho2 := g.MassRho * g.MassRho
	if d := g.PWave(mrho2); d != math.Pi/2 {
		t.Errorf("delta(m_rho^2) = %.17g, expected pi/2", d)
	}
	if d := g.PWave(mrho2 - 0.01); d >= math.Pi/2 {
		t.Errorf("below the pole: %g", d)
	}
	if d := g.PWave(mrho2 + 0.01); d <= math.Pi/2 {
		t.Errorf("above the pole: %g", d)
	}
}

func TestPhasesApproachPi(t *testing.T) {
	g := DefaultGMKPRDEY2011()
	if d := g.PWave(1e6); math.Abs(d-math.Pi) > 1e-2 {
		t.Errorf("P-wave at 1e6: %g", d)
	}
	if d := g.DWave(1e6); math.Abs(d-math.Pi) > 1e-6 {
		t.Errorf("D-wave at 1e6: %g", d)
	}
}

func TestPhasesVanishAtThreshold(t *testing.T) {
	g := DefaultGMKPRDEY2011()
	s := g.Threshold() * (1 + 1e-9)
	if d := g.PWave(s); math.Abs(d) > 1e-9 {
		t.Errorf("P-wave at threshold: %g", d)
	}
	if d := g.DWave(s); math.Abs(d) > 1e-9 {
		t.Errorf("D-wave at threshold: %g", d)
	}
}

func TestWaveLookup(t *testing.T) {
	g := DefaultGMKPRDEY2011()

	p, err := g.Wave("P1")
	if err != nil {
		t.Fatal(err)
	}
	if p(0.7) != g.PWave(0.7) {
		t.Error("P1 is not the P-wave")
	}

	d, err := g.Wave("D0")
	if err != nil {
		t.Fatal(err)
	}
	if d(0.7) != g.DWave(0.7) {
		t.Error("D0 is not the D-wave")
	}

	if _, err := g.Wave("S0"); !errors.Is(err, ErrUnknownWave) {
		t.Errorf("expected ErrUnknownWave, got %v", err)
	}
}

func TestSetParam(t *testing.T) {
	g := DefaultGMKPRDEY2011()
	before := g.PWave(0.9)

	if err := g.SetParam("p1_b0", 1.066); err != nil {
		t.Fatal(err)
	}
	if v := g.GetParams()["p1_b0"]; v != 1.066 {
		t.Errorf("expected p1_b0 = 1.066, got %g", v)
	}
	if g.PWave(0.9) == before {
		t.Error("parameter change did not affect the phase")
	}

	if err := g.SetParam("nope", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if n := len(g.ParamNames()); n != 16 {
		t.Errorf("expected 16 parameters, got %d", n)
	}
}
