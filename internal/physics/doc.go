// Package physics provides the pendulum model and its analytic reference.
//
//   - [Pendulum]: state (θ, ω) and derivative (ω, −(g/L)·sin θ), implementing
//     [dynamo.System] for the integrators
//   - [Harmonic]: small-angle closed form θ₀·cos(√(g/L)·t), optionally with
//     the ω₀ term ([HarmonicWithVelocity])
//
// Both constructors validate [dynamo.Params] and return
// [*dynamo.InvalidParameterError] for L ≤ 0, g < 0 or non-finite input.
package physics
