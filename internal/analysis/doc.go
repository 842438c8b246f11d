// Package analysis samples solved Omnès factors and checks them against
// their input phase.
//
// The package includes:
//
//   - [Linspace]: uniform energy grids
//   - [Scan], [ScanParallel]: evaluate a factor on a grid, recording failures per point
//   - [WatsonDeviation]: largest |arg Ω − δ| modulo π above threshold
//   - [ParamSweep]: rebuild a factor while one phase parameter is varied
//   - [ArgandToASCII]: trajectory of Ω in the complex plane
//
// # Watson's Theorem
//
// Above threshold the phase of Ω equals δ up to multiples of π:
//
//	samples := analysis.Scan(f, grid)
//	if analysis.WatsonDeviation(samples, threshold) > 1e-8 {
//	    // phase input and solution disagree
//	}
package analysis
