package integrators

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// RK4 is the classical fixed-step Runge-Kutta method. Each grid interval
// is split into equal substeps no longer than dt. Not safe for concurrent use.
type RK4 struct {
	dt             float64
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4(dt float64) *RK4 {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = DefaultOptions().FixedDt
	}
	return &RK4{dt: dt}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	k1 := dyn.Derive(x, t)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	k2 := dyn.Derive(r.scratch, t+dt*0.5)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3 := dyn.Derive(r.scratch, t+dt*0.5)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4 := dyn.Derive(r.scratch, t+dt)
	copy(r.k4, k4)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

func (r *RK4) Solve(dyn dynamo.System, x0 dynamo.State, grid dynamo.Grid) (*dynamo.Trajectory, dynamo.Stats, error) {
	stats := dynamo.Stats{Solver: r.Name()}
	if err := checkInitial(dyn, x0, grid); err != nil {
		return nil, stats, err
	}

	traj := dynamo.NewTrajectory(len(grid))
	x := x0.Clone()
	traj.Append(grid[0], x)

	for i := 1; i < len(grid); i++ {
		t0, t1 := grid[i-1], grid[i]
		n := int(math.Ceil((t1 - t0) / r.dt))
		if n < 1 {
			n = 1
		}
		h := (t1 - t0) / float64(n)

		for j := 0; j < n; j++ {
			t := t0 + float64(j)*h
			next := r.Step(dyn, x, t, h)
			stats.Steps++
			stats.Evaluations += 4
			if !next.IsValid() {
				return nil, stats, &dynamo.IntegrationError{
					Step:    stats.Steps,
					Time:    t,
					State:   x.Clone(),
					Partial: traj,
					Wrapped: dynamo.ErrInvalidState,
				}
			}
			x = next
		}
		stats.LastStep = h
		traj.Append(t1, x)
	}

	return traj, stats, nil
}
