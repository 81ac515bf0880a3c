package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

func newTestPendulum(t *testing.T) *Pendulum {
	t.Helper()
	p, err := NewPendulum(dynamo.Params{Gravity: 9.81, Length: 1.0})
	if err != nil {
		t.Fatalf("NewPendulum failed: %v", err)
	}
	return p
}

func TestPendulumEquilibrium(t *testing.T) {
	p := newTestPendulum(t)

	dx := p.Derive(dynamo.State{0, 0}, 0)

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumDimensions(t *testing.T) {
	p := newTestPendulum(t)

	if p.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", p.StateDim())
	}
}

func TestPendulumGravity(t *testing.T) {
	p := newTestPendulum(t)

	dx := p.Derive(dynamo.State{math.Pi / 2, 0.7}, 0)

	if dx[0] != 0.7 {
		t.Errorf("expected dθ/dt = ω = 0.7, got %f", dx[0])
	}
	expectedAccel := -p.Gravity / p.Length
	if math.Abs(dx[1]-expectedAccel) > 1e-12 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestPendulumDeriveIsPure(t *testing.T) {
	p := newTestPendulum(t)
	x := dynamo.State{0.3, -0.2}

	a := p.Derive(x, 0)
	b := p.Derive(x, 5)

	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("derivative depends on t: %v vs %v", a, b)
	}
	if x[0] != 0.3 || x[1] != -0.2 {
		t.Errorf("Derive mutated its input: %v", x)
	}
}

func TestNewPendulum_RejectsBadLength(t *testing.T) {
	for _, l := range []float64{0, -1, math.NaN()} {
		_, err := NewPendulum(dynamo.Params{Theta0: 0.5, Gravity: 9.81, Length: l})
		var perr *dynamo.InvalidParameterError
		if !errors.As(err, &perr) {
			t.Errorf("L=%v: expected *InvalidParameterError, got %v", l, err)
		}
	}
}
