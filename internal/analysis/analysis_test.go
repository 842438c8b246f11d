package analysis

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/omnes/internal/omnes"
)

var errBreak = errors.New("break")

// linearFactor has δ(s) = slope·s and |Ω| = 1 + s, failing at s = 1.
type linearFactor struct {
	slope float64
}

func (f *linearFactor) Phase(s float64) float64 { return f.slope * s }

func (f *linearFactor) Evaluate(s float64) (complex128, error) {
	if s == 1 {
		return 0, errBreak
	}
	if s <= 0 {
		return complex(1-s, 0), nil
	}
	re := 1 + s
	return complex(re, re*math.Tan(f.Phase(s))), nil
}

func solvedToyFactor(t *testing.T, order int) (*omnes.Factor, *omnes.Partition) {
	t.Helper()
	part, err := omnes.NewPartition(0.08, 0.5, 1.0, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	f, err := omnes.New(part, func(s float64) float64 {
		return 0.8 * (s - 0.08) / (s + 0.2)
	}, omnes.WithOrder(order))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Solve(0); err != nil {
		t.Fatal(err)
	}
	return f, part
}

func TestLinspace(t *testing.T) {
	grid, err := Linspace(0, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{0, 0.5, 1, 1.5, 2}
	for i := range expected {
		if math.Abs(grid[i]-expected[i]) > 1e-15 {
			t.Errorf("grid[%d] = %g, expected %g", i, grid[i], expected[i])
		}
	}

	if _, err := Linspace(0, 1, 1); !errors.Is(err, ErrGrid) {
		t.Errorf("n=1: expected ErrGrid, got %v", err)
	}
	if _, err := Linspace(1, 1, 4); !errors.Is(err, ErrGrid) {
		t.Errorf("empty range: expected ErrGrid, got %v", err)
	}
}

func TestScanRecordsFailures(t *testing.T) {
	f := &linearFactor{slope: 0.2}
	samples := Scan(f, []float64{-1, 0.5, 1, 2})
	if len(samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(samples))
	}

	if !errors.Is(samples[2].Err, errBreak) {
		t.Errorf("expected errBreak at s=1, got %v", samples[2].Err)
	}
	if n := len(Valid(samples)); n != 3 {
		t.Errorf("expected 3 valid samples, got %d", n)
	}
	if samples[1].S != 0.5 || math.Abs(samples[1].Phase-0.1) > 1e-15 {
		t.Errorf("unexpected sample %+v", samples[1])
	}

	mods := Moduli(samples)
	if len(mods) != 3 {
		t.Fatalf("expected 3 moduli, got %d", len(mods))
	}
	if math.Abs(mods[0]-2) > 1e-15 {
		t.Errorf("|Ω(-1)| = %g, expected 2", mods[0])
	}
}

func TestWatsonDeviation(t *testing.T) {
	f := &linearFactor{slope: 0.2}
	grid, err := Linspace(-2, 5, 71)
	if err != nil {
		t.Fatal(err)
	}

	samples := Scan(f, grid)
	if dev := WatsonDeviation(samples, 0); dev >= 1e-12 {
		t.Errorf("deviation %g", dev)
	}

	samples = append(samples, Sample{S: 3, Omega: complex(1, 1), Phase: 0})
	if dev := WatsonDeviation(samples, 0); math.Abs(dev-math.Pi/4) > 1e-12 {
		t.Errorf("deviation %g, expected π/4", dev)
	}
}

func TestWatsonDeviationIgnoresBelowThreshold(t *testing.T) {
	samples := []Sample{{S: -1, Omega: complex(0, 1), Phase: 0}}
	if dev := WatsonDeviation(samples, 0); dev != 0 {
		t.Errorf("deviation %g, expected 0", dev)
	}
}

func TestWatsonDeviationOfSolvedFactor(t *testing.T) {
	f, part := solvedToyFactor(t, 10)

	grid, err := Linspace(0.1, 4.1, 41)
	if err != nil {
		t.Fatal(err)
	}
	samples := Scan(f, grid)
	if len(Valid(samples)) == 0 {
		t.Fatal("no valid samples")
	}
	if dev := WatsonDeviation(samples, part.Threshold()); dev >= 1e-9 {
		t.Errorf("deviation %g", dev)
	}
}

type fakeModel struct {
	params map[string]float64
	// restoreErr, when set, fails every SetParam after the first.
	restoreErr error
	writes     int
}

func (m *fakeModel) GetParams() map[string]float64 {
	out := make(map[string]float64, len(m.params))
	for k, v := range m.params {
		out[k] = v
	}
	return out
}

func (m *fakeModel) SetParam(name string, v float64) error {
	if _, ok := m.params[name]; !ok {
		return errors.New("unknown")
	}
	m.writes++
	if m.restoreErr != nil && m.writes > 1 {
		return m.restoreErr
	}
	m.params[name] = v
	return nil
}

func TestParamSweep(t *testing.T) {
	model := &fakeModel{params: map[string]float64{"slope": 0.2}}
	build := func() (Evaluator, error) {
		return &linearFactor{slope: model.params["slope"]}, nil
	}

	points, err := ParamSweep(model, "slope", []float64{0.1, 0.3}, []float64{2}, build)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[1].Param != 0.3 {
		t.Errorf("param %g, expected 0.3", points[1].Param)
	}
	if arg := points[1].Samples[0].Arg(); math.Abs(arg-0.6) > 1e-12 {
		t.Errorf("arg Ω = %g, expected 0.6", arg)
	}
	if v := model.params["slope"]; v != 0.2 {
		t.Errorf("slope not restored: %g", v)
	}
}

func TestParamSweepErrors(t *testing.T) {
	model := &fakeModel{params: map[string]float64{"slope": 0.2}}
	boom := errors.New("boom")

	if _, err := ParamSweep(model, "nope", []float64{1}, nil, nil); err == nil {
		t.Error("expected an error for an unknown parameter")
	}

	_, err := ParamSweep(model, "slope", []float64{0.5}, nil, func() (Evaluator, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if v := model.params["slope"]; v != 0.2 {
		t.Errorf("slope not restored after failure: %g", v)
	}
}

func TestParamSweepReportsFailedRestore(t *testing.T) {
	locked := errors.New("locked")
	model := &fakeModel{params: map[string]float64{"slope": 0.2}, restoreErr: locked}
	build := func() (Evaluator, error) {
		return &linearFactor{slope: model.params["slope"]}, nil
	}

	points, err := ParamSweep(model, "slope", []float64{0.4}, []float64{2}, build)
	if !errors.Is(err, locked) {
		t.Fatalf("expected the restore failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "restoring slope") {
		t.Errorf("error does not name the parameter: %v", err)
	}
	if len(points) != 1 {
		t.Errorf("expected the sweep results alongside the error, got %d points", len(points))
	}
}

func TestParamSweepJoinsBuildAndRestoreErrors(t *testing.T) {
	locked := errors.New("locked")
	boom := errors.New("boom")
	model := &fakeModel{params: map[string]float64{"slope": 0.2}, restoreErr: locked}

	_, err := ParamSweep(model, "slope", []float64{0.4}, nil, func() (Evaluator, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) || !errors.Is(err, locked) {
		t.Errorf("expected both failures, got %v", err)
	}
}

func TestArgandToASCII(t *testing.T) {
	samples := Scan(&linearFactor{slope: 0.2}, []float64{-1, 0.5, 1, 2, 3})
	out := ArgandToASCII(samples, 20, 8)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Errorf("expected 8 lines, got %d", len(lines))
	}
	if !strings.Contains(out, "•") {
		t.Error("plot has no markers")
	}
	if s := ArgandToASCII(nil, 20, 8); s != "" {
		t.Errorf("empty input rendered %q", s)
	}
}

func TestScanParallelMatchesScan(t *testing.T) {
	f, _ := solvedToyFactor(t, 8)

	grid, err := Linspace(-1, 6, 97)
	if err != nil {
		t.Fatal(err)
	}

	serial := Scan(f, grid)
	if got := ScanParallel(f, grid, 4, 10); !reflect.DeepEqual(serial, got) {
		t.Error("parallel scan with 4 workers differs from the serial scan")
	}
	if got := ScanParallel(f, grid, 0, 1000); !reflect.DeepEqual(serial, got) {
		t.Error("single-chunk parallel scan differs from the serial scan")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64, 101} {
		seen := make([]int, n)
		parallelFor(n, 3, 5, func(start, end int) {
			for i := start; i < end; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d index %d visited %d times", n, i, c)
			}
		}
	}
}
