// Package sim runs one pendulum simulation end to end.
//
// A [Pipeline] validates [dynamo.Params], builds a single output grid, solves
// the nonlinear equation on it and evaluates the small-angle reference on the
// very same grid. Every call to [Pipeline.Run] allocates fresh slices, so a
// Pipeline may be shared between goroutines.
package sim
