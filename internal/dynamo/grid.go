package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is an ordered, uniformly spaced set of output times starting at 0.
type Grid []float64

// NewGrid spans [0, horizon] with points samples, both ends included.
func NewGrid(horizon float64, points int) (Grid, error) {
	if math.IsNaN(horizon) || math.IsInf(horizon, 0) || horizon <= 0 {
		return nil, &InvalidParameterError{Param: "horizon", Value: horizon, Reason: "must be finite and > 0"}
	}
	if points < 2 {
		return nil, &InvalidParameterError{Param: "points", Value: float64(points), Reason: "must be >= 2"}
	}
	g := make(Grid, points)
	floats.Span(g, 0, horizon)
	return g, nil
}

func (g Grid) Start() float64 { return g[0] }

func (g Grid) End() float64 { return g[len(g)-1] }

// Spacing returns the uniform distance between consecutive samples.
func (g Grid) Spacing() float64 {
	if len(g) < 2 {
		return 0
	}
	return (g.End() - g.Start()) / float64(len(g)-1)
}
