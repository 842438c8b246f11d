package config

import (
	"maps"
	"slices"

	"github.com/san-kum/omnes/internal/omnes"
)

// Presets reproduce the ππ Omnès factors of the GMKPRDEY2011 phases.
// Breakpoints exclude the threshold, which comes from the model.
var Presets = map[string]*Config{
	"pipi-p1": {
		Order:       omnes.DefaultOrder,
		Breakpoints: []float64{0.5, 1.0, 2.0},
		Reference:   DefaultReference,
		Phase:       PhaseConfig{Model: DefaultModel, Wave: "P1"},
	},
	"pipi-d0": {
		Order:       omnes.DefaultOrder,
		Breakpoints: []float64{0.7, 1.1, 1.45, 2.0},
		Reference:   DefaultReference,
		Phase:       PhaseConfig{Model: DefaultModel, Wave: "D0"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	out.Preset = name
	return out
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
