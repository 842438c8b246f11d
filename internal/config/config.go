package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/omnes/internal/omnes"
	"github.com/san-kum/omnes/internal/phase"
)

const (
	DefaultModel     = "gmkprdey2011"
	DefaultWave      = "P1"
	DefaultReference = 0.0
)

// ErrInvalid is returned by Validate and Load for unusable configurations.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Preset        string       `yaml:"preset,omitempty"`
	Order         int          `yaml:"order"`
	Breakpoints   []float64    `yaml:"breakpoints"`
	Reference     float64      `yaml:"reference"`
	PoleTolerance float64      `yaml:"pole_tolerance,omitempty"`
	Series        SeriesConfig `yaml:"series"`
	Phase         PhaseConfig  `yaml:"phase"`
}

// SeriesConfig tunes the Q_l series. Zero values select the library defaults.
type SeriesConfig struct {
	Tolerance float64 `yaml:"tolerance,omitempty"`
	MaxTerms  int     `yaml:"max_terms,omitempty"`
}

type PhaseConfig struct {
	Model  string             `yaml:"model"`
	Wave   string             `yaml:"wave"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// DefaultConfig is the P-wave preset.
func DefaultConfig() *Config {
	return Presets["pipi-p1"].Clone()
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Breakpoints = append([]float64(nil), c.Breakpoints...)
	if c.Phase.Params != nil {
		out.Phase.Params = make(map[string]float64, len(c.Phase.Params))
		for k, v := range c.Phase.Params {
			out.Phase.Params[k] = v
		}
	}
	return &out
}

// Load reads a YAML file. A preset key selects the base configuration that
// the remaining keys override; otherwise DefaultConfig is the base.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if head.Preset != "" {
		if cfg = GetPreset(head.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalid, head.Preset)
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that can be checked without solving.
func (c *Config) Validate() error {
	if c.Order < 1 {
		return fmt.Errorf("%w: order must be positive, got %d", ErrInvalid, c.Order)
	}
	if math.IsNaN(c.Reference) || math.IsInf(c.Reference, 0) {
		return fmt.Errorf("%w: reference is not finite", ErrInvalid)
	}
	if c.PoleTolerance < 0 || c.Series.Tolerance < 0 || c.Series.MaxTerms < 0 {
		return fmt.Errorf("%w: tolerances must not be negative", ErrInvalid)
	}

	model, err := c.Model()
	if err != nil {
		return err
	}
	if _, err := model.Wave(c.Phase.Wave); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Partition(model); err != nil {
		return err
	}
	return nil
}

// Model returns the phase model with the configured parameter overrides.
func (c *Config) Model() (*phase.GMKPRDEY2011, error) {
	if c.Phase.Model != DefaultModel {
		return nil, fmt.Errorf("%w: unknown phase model %q", ErrInvalid, c.Phase.Model)
	}
	model := phase.DefaultGMKPRDEY2011()
	for name, v := range c.Phase.Params {
		if err := model.SetParam(name, v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return model, nil
}

// Partition prepends the model's threshold to the configured breakpoints.
func (c *Config) Partition(model *phase.GMKPRDEY2011) (*omnes.Partition, error) {
	breaks := append([]float64{model.Threshold()}, c.Breakpoints...)
	part, err := omnes.NewPartition(breaks...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return part, nil
}

// Options translates the solver settings into factor options.
func (c *Config) Options(logger *zap.Logger) []omnes.Option {
	return []omnes.Option{
		omnes.WithOrder(c.Order),
		omnes.WithSeriesTolerance(c.Series.Tolerance, c.Series.MaxTerms),
		omnes.WithPoleTolerance(c.PoleTolerance),
		omnes.WithLogger(logger),
	}
}

// Factor builds an unsolved factor for model.
func (c *Config) Factor(model *phase.GMKPRDEY2011, logger *zap.Logger) (*omnes.Factor, error) {
	wave, err := model.Wave(c.Phase.Wave)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	part, err := c.Partition(model)
	if err != nil {
		return nil, err
	}
	return omnes.New(part, wave, c.Options(logger)...)
}

// Build constructs the model and solves the factor at the configured reference.
func (c *Config) Build(logger *zap.Logger) (*omnes.Factor, *phase.GMKPRDEY2011, error) {
	model, err := c.Model()
	if err != nil {
		return nil, nil, err
	}
	f, err := c.Factor(model, logger)
	if err != nil {
		return nil, nil, err
	}
	if _, err := f.Solve(c.Reference); err != nil {
		return nil, nil, err
	}
	return f, model, nil
}
