package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/dynamo"
)

const degPerRad = 180 / math.Pi

// resample picks n evenly spaced samples so asciigraph does not have to
// squeeze a thousand points into eighty columns.
func resample(xs []float64, n int) []float64 {
	if n <= 0 || len(xs) <= n {
		return append([]float64(nil), xs...)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = xs[i*(len(xs)-1)/(n-1)]
	}
	return out
}

func scaled(xs []float64, k float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = v * k
	}
	return out
}

// ThetaChart plots numeric and harmonic θ(t) in degrees.
func ThetaChart(res *dynamo.Result, width, height int) string {
	numeric := resample(scaled(res.Trajectory.Theta, degPerRad), width)
	harmonic := resample(scaled(res.Harmonic.Theta, degPerRad), width)

	return asciigraph.PlotMany([][]float64{numeric, harmonic},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Orange),
		asciigraph.SeriesLegends("Numerical Solution", "Harmonic Approximation"),
		asciigraph.Caption(fmt.Sprintf("θ(t) in degrees over %.1f s", res.Grid.End())),
	)
}

// DeviationChart plots θ − θ_h in degrees.
func DeviationChart(res *dynamo.Result, width, height int) string {
	dev := make([]float64, res.Trajectory.Len())
	for i := range dev {
		dev[i] = (res.Trajectory.Theta[i] - res.Harmonic.Theta[i]) * degPerRad
	}
	return asciigraph.Plot(resample(dev, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption("θ − θ_harmonic (degrees)"),
	)
}

// SpectrumChart plots the magnitude spectrum up to maxHz.
func SpectrumChart(spec analysis.Spectrum, maxHz float64, width, height int) string {
	n := len(spec.Freqs)
	for n > 0 && maxHz > 0 && spec.Freqs[n-1] > maxHz {
		n--
	}
	if n < 2 {
		return ""
	}
	return asciigraph.Plot(resample(spec.Power[:n], width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("power spectrum of θ, 0 – %.2f Hz", spec.Freqs[n-1])),
	)
}

// PhaseCanvas draws the (θ, ω) trajectory in degrees on a Braille canvas.
func PhaseCanvas(res *dynamo.Result, width, height int) *Canvas {
	theta := scaled(res.Trajectory.Theta, degPerRad)
	omega := scaled(res.Trajectory.Omega, degPerRad)

	c := NewCanvas(width, height)
	b := BoundsOf(theta, omega, 0.05)
	c.Axes(b)
	c.Polyline(b, theta, omega)
	return c
}
