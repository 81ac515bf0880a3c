package config

import (
	"fmt"
	"math"
	"os"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/sim"
)

const (
	DefaultTheta0Deg  = 30.0
	DefaultOmega0Deg  = 0.0
	DefaultGravity    = 9.81
	DefaultLength     = 1.0
	DefaultHorizon    = sim.DefaultHorizon
	DefaultPoints     = sim.DefaultPoints
	DefaultIntegrator = "dopri5"
	DefaultHarmonic   = "rest"
	DefaultDPI        = 300
	DefaultListen     = ":8080"
)

type Config struct {
	Params     dynamo.Params `yaml:"params"`
	Horizon    float64       `yaml:"horizon"`
	Points     int           `yaml:"points"`
	RelTol     float64       `yaml:"rtol"`
	AbsTol     float64       `yaml:"atol"`
	Integrator string        `yaml:"integrator"`
	Harmonic   string        `yaml:"harmonic"`
	DPI        int           `yaml:"dpi"`
	Listen     string        `yaml:"listen"`
}

func DefaultConfig() *Config {
	opts := integrators.DefaultOptions()
	return &Config{
		Params:     dynamo.ParamsFromDegrees(DefaultTheta0Deg, DefaultOmega0Deg, DefaultGravity, DefaultLength),
		Horizon:    DefaultHorizon,
		Points:     DefaultPoints,
		RelTol:     opts.RelTol,
		AbsTol:     opts.AbsTol,
		Integrator: DefaultIntegrator,
		Harmonic:   DefaultHarmonic,
		DPI:        DefaultDPI,
		Listen:     DefaultListen,
	}
}

// Load reads a yaml document over a copy of base. Keys missing from the
// file keep the values of base; a nil base means DefaultConfig.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if base == nil {
		base = DefaultConfig()
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.Horizon) || math.IsInf(c.Horizon, 0) || c.Horizon <= 0 {
		return &dynamo.InvalidParameterError{Param: "horizon", Value: c.Horizon, Reason: "must be finite and > 0"}
	}
	if c.Points < 2 {
		return &dynamo.InvalidParameterError{Param: "points", Value: float64(c.Points), Reason: "must be >= 2"}
	}
	if !(c.RelTol > 0) {
		return &dynamo.InvalidParameterError{Param: "rtol", Value: c.RelTol, Reason: "must be > 0"}
	}
	if !(c.AbsTol > 0) {
		return &dynamo.InvalidParameterError{Param: "atol", Value: c.AbsTol, Reason: "must be > 0"}
	}
	if c.DPI <= 0 {
		return &dynamo.InvalidParameterError{Param: "dpi", Value: float64(c.DPI), Reason: "must be > 0"}
	}
	if !slices.Contains(integrators.Names(), c.Integrator) {
		return fmt.Errorf("unknown integrator: %s (available: %v)", c.Integrator, integrators.Names())
	}
	if _, err := physics.ParseHarmonicMode(c.Harmonic); err != nil {
		return err
	}
	return nil
}

// Pipeline builds the simulation pipeline described by c.
func (c *Config) Pipeline(log *zap.Logger) (*sim.Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := physics.ParseHarmonicMode(c.Harmonic)
	return sim.New(
		sim.WithHorizon(c.Horizon),
		sim.WithPoints(c.Points),
		sim.WithTolerances(c.RelTol, c.AbsTol),
		sim.WithIntegrator(c.Integrator),
		sim.WithHarmonicMode(mode),
		sim.WithLogger(log),
	), nil
}
