package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a first-order ODE dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Params is the physical input of one run. Angles are radians.
type Params struct {
	Theta0  float64 `json:"theta0" yaml:"theta0"`
	Omega0  float64 `json:"omega0" yaml:"omega0"`
	Gravity float64 `json:"g" yaml:"g"`
	Length  float64 `json:"length" yaml:"length"`
}

// ParamsFromDegrees builds Params from an angle in degrees and an angular
// velocity in degrees per second.
func ParamsFromDegrees(theta0Deg, omega0Deg, g, length float64) Params {
	return Params{
		Theta0:  theta0Deg * math.Pi / 180,
		Omega0:  omega0Deg * math.Pi / 180,
		Gravity: g,
		Length:  length,
	}
}

// Validate rejects non-finite values, L <= 0 and g < 0. g == 0 is allowed:
// the pendulum then drifts at constant ω₀.
func (p Params) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"theta0", p.Theta0},
		{"omega0", p.Omega0},
		{"g", p.Gravity},
		{"length", p.Length},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return &InvalidParameterError{Param: f.name, Value: f.val, Reason: "must be finite"}
		}
	}
	if p.Length <= 0 {
		return &InvalidParameterError{Param: "length", Value: p.Length, Reason: "must be > 0"}
	}
	if p.Gravity < 0 {
		return &InvalidParameterError{Param: "g", Value: p.Gravity, Reason: "must be >= 0"}
	}
	return nil
}

// InitialState returns (θ₀, ω₀).
func (p Params) InitialState() State {
	return State{p.Theta0, p.Omega0}
}

// NaturalFrequency returns ω_n = sqrt(g/L) in rad/s.
func (p Params) NaturalFrequency() float64 {
	return math.Sqrt(p.Gravity / p.Length)
}

// SmallAnglePeriod returns 2π/ω_n, or +Inf when g == 0.
func (p Params) SmallAnglePeriod() float64 {
	wn := p.NaturalFrequency()
	if wn == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / wn
}

// Trajectory holds the numeric solution sampled on a Grid.
type Trajectory struct {
	Times []float64 `json:"times"`
	Theta []float64 `json:"theta"`
	Omega []float64 `json:"omega"`
}

func NewTrajectory(n int) *Trajectory {
	return &Trajectory{
		Times: make([]float64, 0, n),
		Theta: make([]float64, 0, n),
		Omega: make([]float64, 0, n),
	}
}

func (tr *Trajectory) Append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.Theta = append(tr.Theta, x[0])
	tr.Omega = append(tr.Omega, x[1])
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// HarmonicSeries holds the closed-form small-angle solution on a Grid.
type HarmonicSeries struct {
	Times []float64 `json:"times"`
	Theta []float64 `json:"theta"`
}

func (h *HarmonicSeries) Len() int { return len(h.Times) }

// Stats summarises the work done by an adaptive solver.
type Stats struct {
	Solver      string  `json:"solver"`
	Steps       int     `json:"steps"`
	Rejected    int     `json:"rejected"`
	Evaluations int     `json:"evaluations"`
	LastStep    float64 `json:"last_step"`
}

// Result is the read-only output of one simulation run.
type Result struct {
	Params     Params          `json:"params"`
	Grid       Grid            `json:"-"`
	Trajectory *Trajectory     `json:"trajectory"`
	Harmonic   *HarmonicSeries `json:"harmonic"`
	Stats      Stats           `json:"stats"`
}
