package physics

import (
	"math"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

func reference(t *testing.T, p dynamo.Params, mode HarmonicMode) *Harmonic {
	t.Helper()
	pend, err := NewPendulum(p)
	if err != nil {
		t.Fatalf("NewPendulum failed: %v", err)
	}
	return pend.Reference(p.InitialState(), mode)
}

func TestHarmonic_FromRestIgnoresOmega0(t *testing.T) {
	p := dynamo.Params{Theta0: 0.2, Omega0: 3.0, Gravity: 9.81, Length: 1.0}
	h := reference(t, p, HarmonicFromRest)

	wn := math.Sqrt(9.81)
	for _, tt := range []float64{0, 0.1, 1, 2.5, 10} {
		want := 0.2 * math.Cos(wn*tt)
		if got := h.At(tt); math.Abs(got-want) > 1e-15 {
			t.Errorf("At(%v) = %v, want %v", tt, got, want)
		}
	}
}

func TestHarmonic_WithVelocity(t *testing.T) {
	p := dynamo.Params{Theta0: 0.1, Omega0: 0.5, Gravity: 4, Length: 1}
	h := reference(t, p, HarmonicWithVelocity)

	// ω_n = 2
	tt := 0.3
	want := 0.1*math.Cos(0.6) + 0.25*math.Sin(0.6)
	if got := h.At(tt); math.Abs(got-want) > 1e-15 {
		t.Errorf("At(%v) = %v, want %v", tt, got, want)
	}
}

func TestHarmonic_ZeroGravity(t *testing.T) {
	p := dynamo.Params{Theta0: 0.4, Omega0: 0.5, Gravity: 0, Length: 1}

	rest := reference(t, p, HarmonicFromRest)
	if got := rest.At(3); got != 0.4 {
		t.Errorf("rest mode with g=0: At(3) = %v, want 0.4", got)
	}

	full := reference(t, p, HarmonicWithVelocity)
	if got := full.At(3); math.Abs(got-1.9) > 1e-15 {
		t.Errorf("full mode with g=0: At(3) = %v, want 1.9", got)
	}
}

func TestPendulum_Reference(t *testing.T) {
	p := dynamo.Params{Theta0: 0.3, Omega0: -0.7, Gravity: 1.62, Length: 2}
	h := reference(t, p, HarmonicWithVelocity)
	if h.NaturalFrequency() != p.NaturalFrequency() {
		t.Errorf("ω_n = %v, want %v", h.NaturalFrequency(), p.NaturalFrequency())
	}
	if got := h.At(0); got != 0.3 {
		t.Errorf("At(0) = %v, want θ₀", got)
	}
}

func TestHarmonic_EvaluateOnGrid(t *testing.T) {
	grid, err := dynamo.NewGrid(10, 500)
	if err != nil {
		t.Fatal(err)
	}
	h := reference(t, dynamo.Params{Theta0: 0.2, Gravity: 9.81, Length: 1}, HarmonicFromRest)

	series := h.Evaluate(grid)
	if series.Len() != len(grid) {
		t.Fatalf("expected %d samples, got %d", len(grid), series.Len())
	}
	for i := range grid {
		if series.Times[i] != grid[i] {
			t.Fatalf("time %d = %v, want %v", i, series.Times[i], grid[i])
		}
	}
	if series.Theta[0] != 0.2 {
		t.Errorf("theta(0) = %v, want 0.2", series.Theta[0])
	}

	series.Times[0] = -1
	if grid[0] != 0 {
		t.Error("Evaluate shares its Times slice with the grid")
	}
}

func TestParseHarmonicMode(t *testing.T) {
	tests := []struct {
		in      string
		want    HarmonicMode
		wantErr bool
	}{
		{"", HarmonicFromRest, false},
		{"rest", HarmonicFromRest, false},
		{"full", HarmonicWithVelocity, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHarmonicMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHarmonicMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHarmonicMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && tt.in != "" && got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}
