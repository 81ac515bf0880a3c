// Package export turns a [dynamo.Result] into files.
//
// [Renderer] draws the θ(t) comparison and the phase-space figure with
// gonum/plot and encodes them as PNG (at a chosen DPI) or SVG. [WriteJSON]
// and [WriteCSV] dump the raw samples.
package export
