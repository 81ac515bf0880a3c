package integrators

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// errorExponent is -1/(q+1) for the embedded 4th-order estimate.
const errorExponent = -0.2

// DormandPrince is the adaptive 5(4) embedded Runge-Kutta solver with a
// 4th-order continuous extension for output between steps.
type DormandPrince struct {
	safety   float64
	minScale float64
	maxScale float64

	RelTol   float64
	AbsTol   float64
	MaxSteps int
	MaxStep  float64
}

func NewDormandPrince(opts Options) *DormandPrince {
	def := DefaultOptions()
	if opts.RelTol <= 0 {
		opts.RelTol = def.RelTol
	}
	if opts.AbsTol <= 0 {
		opts.AbsTol = def.AbsTol
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = def.MaxSteps
	}
	return &DormandPrince{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		RelTol:   opts.RelTol,
		AbsTol:   opts.AbsTol,
		MaxSteps: opts.MaxSteps,
		MaxStep:  opts.MaxStep,
	}
}

func (r *DormandPrince) Name() string { return "dopri5" }

// stepResult holds one trial step: the 5th-order solution, its FSAL
// derivative, every stage for dense output and the scaled error norm.
type stepResult struct {
	x       dynamo.State
	f       dynamo.State
	k       [7]dynamo.State
	errNorm float64
}

// Step advances x by dt without error control.
func (r *DormandPrince) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return r.attempt(dyn, x, dyn.Derive(x, t), t, dt).x
}

func (r *DormandPrince) attempt(dyn dynamo.System, x, k1 dynamo.State, t, dt float64) stepResult {
	n := len(x)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := dyn.Derive(x2, t+a2*dt)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(x3, t+a3*dt)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(x4, t+a4*dt)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(x5, t+a5*dt)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(x6, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(xNew, t+dt)

	// RMS of the error estimate scaled by atol + rtol*max(|x|, |xNew|).
	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := r.AbsTol + r.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		e := errEst / scale
		sum += e * e
	}

	return stepResult{
		x:       xNew,
		f:       k7,
		k:       [7]dynamo.State{k1, k2, k3, k4, k5, k6, k7},
		errNorm: math.Sqrt(sum / float64(n)),
	}
}

// Solve integrates from grid[0] to the last grid time and evaluates the
// solution at every grid time through the continuous extension.
func (r *DormandPrince) Solve(dyn dynamo.System, x0 dynamo.State, grid dynamo.Grid) (*dynamo.Trajectory, dynamo.Stats, error) {
	stats := dynamo.Stats{Solver: r.Name()}
	if err := checkInitial(dyn, x0, grid); err != nil {
		return nil, stats, err
	}

	traj := dynamo.NewTrajectory(len(grid))
	t := grid[0]
	tEnd := grid[len(grid)-1]
	x := x0.Clone()
	traj.Append(grid[0], x)

	if len(grid) == 1 {
		return traj, stats, nil
	}

	f := dyn.Derive(x, t)
	stats.Evaluations++

	fail := func(cause error) (*dynamo.Trajectory, dynamo.Stats, error) {
		return nil, stats, &dynamo.IntegrationError{
			Step:    stats.Steps,
			Time:    t,
			State:   x.Clone(),
			Partial: traj,
			Wrapped: cause,
		}
	}

	h := r.initialStep(dyn, t, x, f, tEnd-t, &stats)
	next := 1
	rejected := false

	for next < len(grid) {
		if stats.Steps+stats.Rejected >= r.MaxSteps {
			return fail(dynamo.ErrUnstable)
		}
		if r.MaxStep > 0 && h > r.MaxStep {
			h = r.MaxStep
		}

		last := false
		if t+h >= tEnd {
			h = tEnd - t
			last = true
		}
		if h < minStep(t) {
			return fail(dynamo.ErrStepTooSmall)
		}

		res := r.attempt(dyn, x, f, t, h)
		stats.Evaluations += 6

		if !res.x.IsValid() || math.IsNaN(res.errNorm) || math.IsInf(res.errNorm, 0) {
			stats.Rejected++
			rejected = true
			h *= r.minScale
			if h < minStep(t) {
				return fail(dynamo.ErrInvalidState)
			}
			continue
		}

		if res.errNorm > 1 {
			stats.Rejected++
			rejected = true
			h *= math.Max(r.minScale, r.safety*math.Pow(res.errNorm, errorExponent))
			continue
		}

		tNew := t + h
		if last {
			tNew = tEnd
		}

		d := newDenseOutput(t, h, x, res.k)
		for next < len(grid) && grid[next] <= tNew {
			if grid[next] == tNew {
				traj.Append(grid[next], res.x)
			} else {
				traj.Append(grid[next], d.At(grid[next]))
			}
			next++
		}

		stats.Steps++
		stats.LastStep = h
		t, x, f = tNew, res.x, res.f

		var scale float64
		if res.errNorm == 0 {
			scale = r.maxScale
		} else {
			scale = math.Min(r.maxScale, r.safety*math.Pow(res.errNorm, errorExponent))
		}
		if rejected {
			scale = math.Min(1, scale)
		}
		rejected = false
		h *= scale
	}

	return traj, stats, nil
}

// initialStep follows Hairer, Nørsett & Wanner (II.4) for the first trial step.
func (r *DormandPrince) initialStep(dyn dynamo.System, t0 float64, x0, f0 dynamo.State, span float64, stats *dynamo.Stats) float64 {
	n := len(x0)
	d0, d1 := 0.0, 0.0
	for i := 0; i < n; i++ {
		scale := r.AbsTol + r.RelTol*math.Abs(x0[i])
		d0 += (x0[i] / scale) * (x0[i] / scale)
		d1 += (f0[i] / scale) * (f0[i] / scale)
	}
	d0 = math.Sqrt(d0 / float64(n))
	d1 = math.Sqrt(d1 / float64(n))

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, span)

	x1 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x1[i] = x0[i] + h0*f0[i]
	}
	f1 := dyn.Derive(x1, t0+h0)
	stats.Evaluations++

	d2 := 0.0
	for i := 0; i < n; i++ {
		scale := r.AbsTol + r.RelTol*math.Abs(x0[i])
		e := (f1[i] - f0[i]) / scale
		d2 += e * e
	}
	d2 = math.Sqrt(d2/float64(n)) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 0.2)
	}

	h := math.Min(100*h0, math.Min(h1, span))
	if !(h > 0) || math.IsInf(h, 0) {
		h = span
	}
	return h
}

// minStep is ten ulps of t.
func minStep(t float64) float64 {
	a := math.Abs(t)
	return 10 * (math.Nextafter(a, math.Inf(1)) - a)
}
