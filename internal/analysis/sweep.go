package analysis

import (
	"errors"
	"fmt"
)

// Configurable is a phase model with named parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// SweepPoint holds Ω at the given energies for one parameter value.
type SweepPoint struct {
	Param   float64
	Samples []Sample
}

// ParamSweep sets the named parameter of model to each value, rebuilds the
// factor with build and samples it at the given energies. The parameter is
// restored afterwards, also on error; a failed restore is joined to err.
func ParamSweep(
	model Configurable,
	name string,
	values, energies []float64,
	build func() (Evaluator, error),
) (_ []SweepPoint, err error) {
	orig, ok := model.GetParams()[name]
	if !ok {
		return nil, fmt.Errorf("analysis: unknown sweep parameter %q", name)
	}
	defer func() {
		if rerr := model.SetParam(name, orig); rerr != nil {
			err = errors.Join(err, fmt.Errorf("analysis: restoring %s: %w", name, rerr))
		}
	}()

	results := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		if err := model.SetParam(name, v); err != nil {
			return nil, err
		}
		f, err := build()
		if err != nil {
			return nil, fmt.Errorf("analysis: %s=%g: %w", name, v, err)
		}
		results = append(results, SweepPoint{Param: v, Samples: Scan(f, energies)})
	}
	return results, nil
}
