package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// ErrNoPeriod is returned when a signal crosses its midline fewer than twice.
var ErrNoPeriod = errors.New("analysis: signal does not oscillate within the sampled window")

// crossing is a linearly interpolated midline crossing.
type crossing struct {
	t  float64
	up bool
}

func midlineCrossings(times, values []float64) []crossing {
	if len(values) < 2 {
		return nil
	}
	mid := (floats.Max(values) + floats.Min(values)) / 2

	var out []crossing
	for i := 1; i < len(values); i++ {
		a, b := values[i-1]-mid, values[i]-mid
		if a == b || (a < 0) == (b < 0) {
			continue
		}
		frac := a / (a - b)
		out = append(out, crossing{
			t:  times[i-1] + frac*(times[i]-times[i-1]),
			up: b > a,
		})
	}
	return out
}

// EstimatePeriod averages the spacing between successive same-direction
// midline crossings. With only one crossing in each direction it doubles
// the half-period between them.
func EstimatePeriod(times, values []float64) (float64, error) {
	if len(times) != len(values) {
		return 0, dynamo.ErrDimensionMismatch
	}
	cs := midlineCrossings(times, values)
	if len(cs) < 2 {
		return 0, ErrNoPeriod
	}

	sum, n := 0.0, 0
	for _, up := range []bool{true, false} {
		last := math.NaN()
		for _, c := range cs {
			if c.up != up {
				continue
			}
			if !math.IsNaN(last) {
				sum += c.t - last
				n++
			}
			last = c.t
		}
	}
	if n == 0 {
		return 2 * (cs[1].t - cs[0].t), nil
	}
	return sum / float64(n), nil
}

// MaxDeviation is the sup-norm distance between the numeric and harmonic θ.
func MaxDeviation(r *dynamo.Result) float64 {
	return floats.Distance(r.Trajectory.Theta, r.Harmonic.Theta, math.Inf(1))
}

// MaxDeviationUntil restricts MaxDeviation to samples with t <= until.
func MaxDeviationUntil(r *dynamo.Result, until float64) float64 {
	n := 0
	for n < len(r.Grid) && r.Grid[n] <= until {
		n++
	}
	if n == 0 {
		return 0
	}
	return floats.Distance(r.Trajectory.Theta[:n], r.Harmonic.Theta[:n], math.Inf(1))
}

// Summary collects the scalar diagnostics printed by the CLI.
type Summary struct {
	NumericPeriod  float64 `json:"numeric_period"`
	HarmonicPeriod float64 `json:"harmonic_period"`
	PeriodRatio    float64 `json:"period_ratio"`
	MaxDeviation   float64 `json:"max_deviation"`
	Amplitude      float64 `json:"amplitude"`
}

// Summarize fills every field it can; periods stay NaN when the window
// holds less than one swing.
func Summarize(r *dynamo.Result) Summary {
	s := Summary{
		NumericPeriod:  math.NaN(),
		HarmonicPeriod: math.NaN(),
		PeriodRatio:    math.NaN(),
		MaxDeviation:   MaxDeviation(r),
		Amplitude:      math.Max(math.Abs(floats.Max(r.Trajectory.Theta)), math.Abs(floats.Min(r.Trajectory.Theta))),
	}
	if p, err := EstimatePeriod(r.Trajectory.Times, r.Trajectory.Theta); err == nil {
		s.NumericPeriod = p
	}
	if p, err := EstimatePeriod(r.Harmonic.Times, r.Harmonic.Theta); err == nil {
		s.HarmonicPeriod = p
	}
	if !math.IsNaN(s.NumericPeriod) && !math.IsNaN(s.HarmonicPeriod) {
		s.PeriodRatio = s.NumericPeriod / s.HarmonicPeriod
	}
	return s
}
