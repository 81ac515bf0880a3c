package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Solver integrates an initial value problem and samples it on a grid.
type Solver interface {
	Name() string
	Solve(dyn dynamo.System, x0 dynamo.State, grid dynamo.Grid) (*dynamo.Trajectory, dynamo.Stats, error)
}

// Options configures the solvers built by Lookup.
type Options struct {
	RelTol   float64
	AbsTol   float64
	MaxSteps int
	// MaxStep bounds the adaptive step; 0 means unbounded.
	MaxStep float64
	// FixedDt is the internal step of fixed-step solvers.
	FixedDt float64
}

func DefaultOptions() Options {
	return Options{
		RelTol:   1e-6,
		AbsTol:   1e-8,
		MaxSteps: 1_000_000,
		FixedDt:  1e-3,
	}
}

var registry = map[string]func(Options) Solver{
	"dopri5": func(o Options) Solver { return NewDormandPrince(o) },
	"rk4":    func(o Options) Solver { return NewRK4(o.FixedDt) },
}

// Lookup returns the named solver configured with opts.
func Lookup(name string, opts Options) (Solver, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(opts), nil
}

// Names lists the registered solvers in lexical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkInitial(dyn dynamo.System, x0 dynamo.State, grid dynamo.Grid) error {
	if len(grid) == 0 {
		return &dynamo.InvalidParameterError{Param: "points", Value: 0, Reason: "grid is empty"}
	}
	if len(x0) != dyn.StateDim() {
		return fmt.Errorf("state has %d components, system wants %d: %w", len(x0), dyn.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !x0.IsValid() {
		return &dynamo.IntegrationError{Time: grid[0], State: x0.Clone(), Partial: dynamo.NewTrajectory(0), Wrapped: dynamo.ErrInvalidState}
	}
	return nil
}
