package config

import (
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Presets only set physics and horizon; everything else comes from DefaultConfig.
var Presets = map[string]*Config{
	"small":    preset(dynamo.Params{Theta0: 0.2, Omega0: 0.0, Gravity: 9.81, Length: 1.0}, 10),
	"large":    preset(dynamo.Params{Theta0: 2.5, Omega0: 0.0, Gravity: 9.81, Length: 1.0}, 20),
	"spinning": preset(dynamo.Params{Theta0: 0.1, Omega0: 8.0, Gravity: 9.81, Length: 1.0}, 10),
	"inverted": preset(dynamo.Params{Theta0: 3.0, Omega0: 0.0, Gravity: 9.81, Length: 1.0}, 20),
	"moon":     preset(dynamo.Params{Theta0: 0.5, Omega0: 0.0, Gravity: 1.62, Length: 1.0}, 20),
}

func preset(p dynamo.Params, horizon float64) *Config {
	cfg := DefaultConfig()
	cfg.Params = p
	cfg.Horizon = horizon
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
