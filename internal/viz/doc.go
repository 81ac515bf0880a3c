// Package viz draws simulation results in the terminal.
//
//   - [ThetaChart], [DeviationChart], [SpectrumChart]: asciigraph line charts
//   - [Canvas] and [PhaseCanvas]: Braille pixel canvas for the phase portrait
//   - [Theme] and [Styles]: lipgloss styling shared with the TUI
//
// Angles are converted to degrees for display.
package viz
