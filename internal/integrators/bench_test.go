package integrators

import (
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

type benchDynamics struct{}

func (b *benchDynamics) StateDim() int { return 2 }
func (b *benchDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4(0.01)
	dyn := &benchDynamics{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewDormandPrince(DefaultOptions())
	dyn := &benchDynamics{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkSolveDopri5(b *testing.B) {
	grid := mustGrid(b, 10, 1000)
	solver := NewDormandPrince(DefaultOptions())
	dyn := &benchDynamics{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := solver.Solve(dyn, dynamo.State{1, 0}, grid); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveRK4(b *testing.B) {
	grid := mustGrid(b, 10, 1000)
	solver := NewRK4(1e-3)
	dyn := &benchDynamics{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := solver.Solve(dyn, dynamo.State{1, 0}, grid); err != nil {
			b.Fatal(err)
		}
	}
}
