package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
)

const (
	DefaultHorizon = 10.0
	DefaultPoints  = 1000
)

type Pipeline struct {
	horizon    float64
	points     int
	integrator string
	solverOpts integrators.Options
	harmonic   physics.HarmonicMode
	log        *zap.Logger
}

type Option func(*Pipeline)

func WithHorizon(seconds float64) Option {
	return func(p *Pipeline) { p.horizon = seconds }
}

func WithPoints(n int) Option {
	return func(p *Pipeline) { p.points = n }
}

func WithTolerances(rtol, atol float64) Option {
	return func(p *Pipeline) {
		p.solverOpts.RelTol = rtol
		p.solverOpts.AbsTol = atol
	}
}

// WithSolverOptions replaces every solver setting at once.
func WithSolverOptions(opts integrators.Options) Option {
	return func(p *Pipeline) { p.solverOpts = opts }
}

func WithIntegrator(name string) Option {
	return func(p *Pipeline) { p.integrator = name }
}

func WithHarmonicMode(m physics.HarmonicMode) Option {
	return func(p *Pipeline) { p.harmonic = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		horizon:    DefaultHorizon,
		points:     DefaultPoints,
		integrator: "dopri5",
		solverOpts: integrators.DefaultOptions(),
		harmonic:   physics.HarmonicFromRest,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) Horizon() float64 { return p.horizon }
func (p *Pipeline) Points() int      { return p.points }

// Run validates params, solves the pendulum and the harmonic reference on
// one shared grid and returns the combined result. Bad params, horizon or
// points yield *dynamo.InvalidParameterError and a failed solve wraps
// *dynamo.IntegrationError. An unregistered integrator name is a plain
// error. Nothing is clamped or retried.
func (p *Pipeline) Run(params dynamo.Params) (*dynamo.Result, error) {
	pend, err := physics.NewPendulum(params)
	if err != nil {
		return nil, err
	}

	grid, err := dynamo.NewGrid(p.horizon, p.points)
	if err != nil {
		return nil, err
	}

	solver, err := integrators.Lookup(p.integrator, p.solverOpts)
	if err != nil {
		return nil, err
	}

	x0 := params.InitialState()
	ref := pend.Reference(x0, p.harmonic)

	start := time.Now()
	traj, stats, err := solver.Solve(pend, x0, grid)
	if err != nil {
		p.log.Debug("integration failed",
			zap.String("solver", solver.Name()),
			zap.Int("steps", stats.Steps),
			zap.Int("rejected", stats.Rejected),
			zap.Error(err),
		)
		return nil, fmt.Errorf("solve %s: %w", solver.Name(), err)
	}

	p.log.Debug("integration finished",
		zap.String("solver", stats.Solver),
		zap.Int("steps", stats.Steps),
		zap.Int("rejected", stats.Rejected),
		zap.Int("evaluations", stats.Evaluations),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &dynamo.Result{
		Params:     params,
		Grid:       grid,
		Trajectory: traj,
		Harmonic:   ref.Evaluate(grid),
		Stats:      stats,
	}, nil
}
