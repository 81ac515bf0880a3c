package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is a one-sided magnitude spectrum.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum applies a Hann window to the mean-removed signal and
// returns magnitudes for frequencies 0 .. Nyquist. dt is the sample spacing.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	n := len(data)
	if n < 2 || !(dt > 0) {
		return Spectrum{}
	}

	mean := floats.Sum(data) / float64(n)
	buf := make([]complex128, n)
	for i, v := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		buf[i] = complex((v-mean)*window, 0)
	}
	out := fft.FFT(buf)

	half := n/2 + 1
	s := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(out[k])
	}
	return s
}

// DominantFrequency returns the strongest non-DC frequency in Hz, refined
// by parabolic interpolation over the neighbouring bins.
func (s Spectrum) DominantFrequency() float64 {
	if len(s.Power) < 3 {
		return 0
	}
	k := floats.MaxIdx(s.Power[1:]) + 1
	if k == len(s.Power)-1 {
		return s.Freqs[k]
	}

	a, b, c := s.Power[k-1], s.Power[k], s.Power[k+1]
	den := a - 2*b + c
	shift := 0.0
	if den != 0 {
		shift = 0.5 * (a - c) / den
	}
	return s.Freqs[k] + shift*(s.Freqs[1]-s.Freqs[0])
}
