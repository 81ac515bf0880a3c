package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}

	c.Clear()
	if c.String() != "⠀⠀\n" {
		t.Errorf("Clear left %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != 0x2809 {
			t.Errorf("cell %d = %U, want U+2809", col, c.Grid[0][col])
		}
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]float64{-1, 1}, []float64{2, 2}, 0)
	if b.MinX != -1 || b.MaxX != 1 {
		t.Errorf("x bounds = [%v, %v]", b.MinX, b.MaxX)
	}
	if b.MinY != 1 || b.MaxY != 3 {
		t.Errorf("flat y bounds not widened: [%v, %v]", b.MinY, b.MaxY)
	}
	if empty := BoundsOf(nil, nil, 0.1); empty.MaxX <= empty.MinX {
		t.Errorf("empty bounds degenerate: %+v", empty)
	}
}

func TestResample(t *testing.T) {
	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = float64(i)
	}
	got := resample(xs, 80)
	if len(got) != 80 || got[0] != 0 || got[79] != 999 {
		t.Errorf("resample: len=%d first=%v last=%v", len(got), got[0], got[len(got)-1])
	}
	if short := resample(xs[:10], 80); len(short) != 10 {
		t.Errorf("short input resampled to %d", len(short))
	}
}

func runResult(t *testing.T) *dynamo.Result {
	t.Helper()
	res, err := sim.New(sim.WithPoints(300)).Run(dynamo.Params{Theta0: 1.0, Gravity: 9.81, Length: 1})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestCharts(t *testing.T) {
	res := runResult(t)

	theta := ThetaChart(res, 60, 10)
	if !strings.Contains(theta, "Numerical Solution") || !strings.Contains(theta, "Harmonic Approximation") {
		t.Errorf("theta chart missing legends:\n%s", theta)
	}
	if dev := DeviationChart(res, 60, 6); !strings.Contains(dev, "θ − θ_harmonic") {
		t.Errorf("deviation chart missing caption:\n%s", dev)
	}

	spec := analysis.PowerSpectrum(res.Trajectory.Theta, res.Grid.Spacing())
	if out := SpectrumChart(spec, 3, 60, 8); out == "" {
		t.Error("spectrum chart empty")
	}
	if out := SpectrumChart(analysis.Spectrum{}, 3, 60, 8); out != "" {
		t.Error("empty spectrum should render nothing")
	}
}

func TestPhaseCanvas(t *testing.T) {
	c := PhaseCanvas(runResult(t), 40, 12)
	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit++
			}
		}
	}
	if lit < 40 {
		t.Errorf("only %d cells drawn", lit)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("GetTheme(retro) failed")
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}

	seen := map[string]bool{}
	th := Themes[0]
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != Themes[0].Name {
		t.Errorf("NextTheme did not cycle: %v", seen)
	}
}

func TestHexHelpers(t *testing.T) {
	r, g, b := parseHex("#1f77B4")
	if r != 0x1f || g != 0x77 || b != 0xb4 {
		t.Errorf("parseHex = %d %d %d", r, g, b)
	}
	if got := hexColor(300, -5, 171); got != "#ff00ab" {
		t.Errorf("hexColor = %s", got)
	}
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("empty gradient should be empty")
	}
}
