package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// HarmonicMode selects which small-angle closed form is evaluated.
type HarmonicMode int

const (
	// HarmonicFromRest is θ₀·cos(ω_n t). It ignores ω₀, matching the
	// classic release-from-rest curve shown next to the numeric solution.
	HarmonicFromRest HarmonicMode = iota
	// HarmonicWithVelocity is θ₀·cos(ω_n t) + (ω₀/ω_n)·sin(ω_n t).
	HarmonicWithVelocity
)

func (m HarmonicMode) String() string {
	switch m {
	case HarmonicFromRest:
		return "rest"
	case HarmonicWithVelocity:
		return "full"
	default:
		return fmt.Sprintf("HarmonicMode(%d)", int(m))
	}
}

// ParseHarmonicMode accepts "rest" (or "") and "full".
func ParseHarmonicMode(s string) (HarmonicMode, error) {
	switch s {
	case "", "rest":
		return HarmonicFromRest, nil
	case "full":
		return HarmonicWithVelocity, nil
	default:
		return 0, fmt.Errorf("unknown harmonic mode: %s", s)
	}
}

// Harmonic evaluates the linearised pendulum analytically.
type Harmonic struct {
	theta0 float64
	omega0 float64
	wn     float64
	mode   HarmonicMode
}

// Reference linearises p about θ = 0 starting from x0, computing
// ω_n = sqrt(g/L) once for every later evaluation.
func (p *Pendulum) Reference(x0 dynamo.State, mode HarmonicMode) *Harmonic {
	return &Harmonic{
		theta0: x0[0],
		omega0: x0[1],
		wn:     math.Sqrt(p.Gravity / p.Length),
		mode:   mode,
	}
}

// NaturalFrequency returns ω_n in rad/s.
func (h *Harmonic) NaturalFrequency() float64 { return h.wn }

// At returns θ_h(t).
func (h *Harmonic) At(t float64) float64 {
	theta := h.theta0 * math.Cos(h.wn*t)
	if h.mode != HarmonicWithVelocity {
		return theta
	}
	if h.wn == 0 {
		return h.theta0 + h.omega0*t
	}
	return theta + h.omega0/h.wn*math.Sin(h.wn*t)
}

// Evaluate samples θ_h on grid. The returned Times slice is a copy of grid.
func (h *Harmonic) Evaluate(grid dynamo.Grid) *dynamo.HarmonicSeries {
	series := &dynamo.HarmonicSeries{
		Times: make([]float64, len(grid)),
		Theta: make([]float64, len(grid)),
	}
	copy(series.Times, grid)
	for i, t := range grid {
		series.Theta[i] = h.At(t)
	}
	return series
}
