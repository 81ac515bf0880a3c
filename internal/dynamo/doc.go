// Package dynamo provides the shared data model for pendulum simulations.
//
// The package defines the values that flow between the solver, the analytic
// reference and the presentation layer:
//
//   - [Params]: immutable physical input (θ₀, ω₀, g, L)
//   - [Grid]: uniform output time grid shared by every curve of a run
//   - [Trajectory]: numerically integrated θ(t), ω(t) sampled on the grid
//   - [HarmonicSeries]: closed-form small-angle θ(t) on the same grid
//   - [Result]: the aggregate handed to renderers
//
// # Example
//
//	p := dynamo.Params{Theta0: 0.2, Gravity: 9.81, Length: 1}
//	res, err := sim.New().Run(p)
//	if err != nil {
//	    var perr *dynamo.InvalidParameterError
//	    if errors.As(err, &perr) { ... }
//	}
//
// # Ownership
//
// A Result is built fresh for every run and never shared. Nothing in this
// package holds mutable global state.
package dynamo
