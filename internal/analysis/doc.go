// Package analysis extracts scalar diagnostics from a simulation result.
//
//   - [EstimatePeriod]: period from midpoint crossings of a sampled signal
//   - [MaxDeviation]: largest |θ − θ_h| between the numeric and harmonic curves
//   - [PowerSpectrum] and [DominantFrequency]: windowed FFT of θ(t)
//   - [NewPhasePortrait] and [PhasePortraitToASCII]: the (θ, ω) trajectory
//   - [TurningPoints]: θ where ω changes sign, i.e. the swing amplitude
//
// Comparing the numeric and harmonic periods shows how far the
// small-angle approximation drifts:
//
//	tn, _ := analysis.EstimatePeriod(res.Trajectory.Times, res.Trajectory.Theta)
//	th, _ := analysis.EstimatePeriod(res.Harmonic.Times, res.Harmonic.Theta)
//	ratio := tn / th
package analysis
