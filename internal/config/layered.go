package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// Keys understood by Resolve. Each is bound to a flag of the same name and
// to PENDULAB_<KEY> in the environment.
const (
	KeyConfig     = "config"
	KeyPreset     = "preset"
	KeyTheta0     = "theta0"
	KeyOmega0     = "omega0"
	KeyDegrees    = "deg"
	KeyGravity    = "g"
	KeyLength     = "length"
	KeyHorizon    = "horizon"
	KeyPoints     = "points"
	KeyRelTol     = "rtol"
	KeyAbsTol     = "atol"
	KeyIntegrator = "integrator"
	KeyHarmonic   = "harmonic"
	KeyDPI        = "dpi"
	KeyListen     = "listen"
)

const EnvPrefix = "PENDULAB"

// Resolve layers defaults, a preset, a yaml file and finally every key
// explicitly set on v (changed flags or environment variables). With
// deg set, theta0 and omega0 from v are read in degrees.
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if name := v.GetString(KeyPreset); name != "" {
		p := GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
		}
		cfg = p
	}

	if path := v.GetString(KeyConfig); path != "" {
		loaded, err := Load(path, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	angle := 1.0
	if v.GetBool(KeyDegrees) {
		angle = math.Pi / 180
	}

	if v.IsSet(KeyTheta0) {
		cfg.Params.Theta0 = v.GetFloat64(KeyTheta0) * angle
	}
	if v.IsSet(KeyOmega0) {
		cfg.Params.Omega0 = v.GetFloat64(KeyOmega0) * angle
	}
	if v.IsSet(KeyGravity) {
		cfg.Params.Gravity = v.GetFloat64(KeyGravity)
	}
	if v.IsSet(KeyLength) {
		cfg.Params.Length = v.GetFloat64(KeyLength)
	}
	if v.IsSet(KeyHorizon) {
		cfg.Horizon = v.GetFloat64(KeyHorizon)
	}
	if v.IsSet(KeyPoints) {
		cfg.Points = v.GetInt(KeyPoints)
	}
	if v.IsSet(KeyRelTol) {
		cfg.RelTol = v.GetFloat64(KeyRelTol)
	}
	if v.IsSet(KeyAbsTol) {
		cfg.AbsTol = v.GetFloat64(KeyAbsTol)
	}
	if v.IsSet(KeyIntegrator) {
		cfg.Integrator = v.GetString(KeyIntegrator)
	}
	if v.IsSet(KeyHarmonic) {
		cfg.Harmonic = v.GetString(KeyHarmonic)
	}
	if v.IsSet(KeyDPI) {
		cfg.DPI = v.GetInt(KeyDPI)
	}
	if v.IsSet(KeyListen) {
		cfg.Listen = v.GetString(KeyListen)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
