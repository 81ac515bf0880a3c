package tui

import (
	"math"
	"strconv"
)

// slider is a bounded numeric control with a fixed step.
type slider struct {
	label string
	short string
	unit  string
	min   float64
	max   float64
	step  float64
	def   float64
	value float64
}

func newSlider(label, short, unit string, min, max, step, def float64) slider {
	s := slider{label: label, short: short, unit: unit, min: min, max: max, step: step, def: def}
	s.set(def)
	return s
}

// set clamps v to [min, max] and snaps it to the step grid. It reports
// whether the stored value differs from v.
func (s *slider) set(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	x := math.Max(s.min, math.Min(s.max, v))
	n := math.Round((x - s.min) / s.step)
	x = s.min + n*s.step
	// Undo the representation error of n*step so 9.81 stays 9.81.
	x, _ = strconv.ParseFloat(strconv.FormatFloat(x, 'f', s.decimals(), 64), 64)
	s.value = math.Max(s.min, math.Min(s.max, x))
	return math.Abs(s.value-v) > 1e-9*math.Max(1, math.Abs(v))
}

func (s *slider) nudge(steps int) {
	s.set(s.value + float64(steps)*s.step)
}

func (s *slider) reset() { s.set(s.def) }

func (s slider) fraction() float64 {
	return (s.value - s.min) / (s.max - s.min)
}

func (s slider) decimals() int {
	d := 0
	for step := s.step; step < 1-1e-9 && d < 6; step *= 10 {
		d++
	}
	return d
}

func (s slider) format() string {
	return strconv.FormatFloat(s.value, 'f', s.decimals(), 64)
}
