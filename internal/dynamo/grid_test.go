package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(10, 500)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	if len(g) != 500 {
		t.Fatalf("expected 500 points, got %d", len(g))
	}
	if g.Start() != 0 {
		t.Errorf("Start() = %v, want 0", g.Start())
	}
	if math.Abs(g.End()-10) > 1e-12 {
		t.Errorf("End() = %v, want 10", g.End())
	}

	step := g.Spacing()
	for i := 1; i < len(g); i++ {
		if g[i] <= g[i-1] {
			t.Fatalf("grid not increasing at %d: %v <= %v", i, g[i], g[i-1])
		}
		if d := g[i] - g[i-1]; math.Abs(d-step) > 1e-12 {
			t.Fatalf("non-uniform spacing at %d: %v vs %v", i, d, step)
		}
	}
}

func TestNewGrid_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		horizon float64
		points  int
	}{
		{"zero horizon", 0, 10},
		{"negative horizon", -1, 10},
		{"NaN horizon", math.NaN(), 10},
		{"single point", 10, 1},
		{"no points", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.horizon, tt.points)
			var perr *InvalidParameterError
			if !errors.As(err, &perr) {
				t.Errorf("expected *InvalidParameterError, got %v", err)
			}
		})
	}
}
