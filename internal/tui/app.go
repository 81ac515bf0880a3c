package tui

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/export"
	"github.com/san-kum/pendulab/internal/sim"
	"github.com/san-kum/pendulab/internal/viz"
)

const (
	sliderGravity = iota
	sliderLength
	sliderTheta0
	sliderOmega0
)

type view int

const (
	viewTheta view = iota
	viewPhase
	viewDeviation
	viewCount
)

func (v view) String() string {
	switch v {
	case viewTheta:
		return "θ(t)"
	case viewPhase:
		return "phase space"
	case viewDeviation:
		return "deviation"
	}
	return "?"
}

type savedMsg struct {
	paths []string
	err   error
}

// tickMsg advances the animation. id ties it to one play run so ticks
// left over from a paused run are dropped.
type tickMsg struct {
	id int
	at time.Time
}

func tick(id int) tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg{id: id, at: t} })
}

// Model is the interactive simulator. Every slider change reruns the
// pipeline synchronously and replaces the displayed result.
type Model struct {
	pipeline *sim.Pipeline
	renderer *export.Renderer
	outDir   string

	sliders []slider
	cursor  int

	editing bool
	input   textinput.Model

	result  *dynamo.Result
	summary analysis.Summary
	err     error
	status  string

	view    view
	playing bool
	frame   int
	tickID  int
	canvas  *viz.Canvas

	theme  viz.Theme
	styles viz.Styles
	help   help.Model

	width  int
	height int
}

// NewApp starts with the sliders at initial, clamped to the slider ranges.
// Any value that had to be clamped or snapped is named in the status line.
func NewApp(p *sim.Pipeline, r *export.Renderer, outDir string, initial dynamo.Params) *Model {
	ti := textinput.New()
	ti.Prompt = "value: "
	ti.CharLimit = 12

	theme := viz.Themes[0]
	m := &Model{
		pipeline: p,
		renderer: r,
		outDir:   outDir,
		sliders: []slider{
			sliderGravity: newSlider("Gravity", "g", "m/s²", 1, 20, 0.01, 9.81),
			sliderLength:  newSlider("Rod Length", "L", "m", 0.1, 5, 0.1, 1),
			sliderTheta0:  newSlider("Initial Angle θ₀", "θ₀", "°", -180, 180, 1, 30),
			sliderOmega0:  newSlider("Initial Angular Velocity ω₀", "ω₀", "°/s", -360, 360, 1, 0),
		},
		input:  ti,
		theme:  theme,
		styles: viz.NewStyles(theme),
		help:   help.New(),
		width:  100,
		height: 40,
	}

	var adjusted []string
	for i, v := range []float64{
		sliderGravity: initial.Gravity,
		sliderLength:  initial.Length,
		sliderTheta0:  initial.Theta0 * 180 / math.Pi,
		sliderOmega0:  initial.Omega0 * 180 / math.Pi,
	} {
		if note, ok := m.setSlider(i, v); ok {
			adjusted = append(adjusted, note)
		}
	}
	if len(adjusted) > 0 {
		m.status = "adjusted to slider limits: " + strings.Join(adjusted, ", ")
	}
	m.recompute()
	return m
}

// setSlider stores v in slider i and, if the slider had to clamp or snap
// it, describes the change.
func (m *Model) setSlider(i int, v float64) (string, bool) {
	sl := &m.sliders[i]
	if !sl.set(v) {
		return "", false
	}
	return fmt.Sprintf("%s %.6g → %s %s", sl.short, v, sl.format(), sl.unit), true
}

// SetTheme switches to one of viz.ThemeNames.
func (m *Model) SetTheme(name string) error {
	if !slices.Contains(viz.ThemeNames(), name) {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(viz.ThemeNames(), ", "))
	}
	m.theme = viz.GetTheme(name)
	m.styles = viz.NewStyles(m.theme)
	return nil
}

// Params converts the slider positions, which are in degrees, to radians.
func (m *Model) Params() dynamo.Params {
	return dynamo.ParamsFromDegrees(
		m.sliders[sliderTheta0].value,
		m.sliders[sliderOmega0].value,
		m.sliders[sliderGravity].value,
		m.sliders[sliderLength].value,
	)
}

func (m *Model) Result() *dynamo.Result { return m.result }
func (m *Model) Err() error             { return m.err }

func (m *Model) recompute() {
	res, err := m.pipeline.Run(m.Params())
	m.playing = false
	m.frame = 0
	if err != nil {
		m.result = nil
		m.err = err
		return
	}
	m.result = res
	m.err = nil
	m.summary = analysis.Summarize(res)
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "download failed: " + msg.err.Error()
		} else {
			m.status = "saved " + strings.Join(msg.paths, ", ")
		}
		return m, nil

	case tickMsg:
		if !m.playing || m.result == nil || msg.id != m.tickID {
			return m, nil
		}
		m.frame += max(1, m.result.Trajectory.Len()/300)
		if m.frame >= m.result.Trajectory.Len() {
			m.frame = m.result.Trajectory.Len() - 1
			m.playing = false
			return m, nil
		}
		return m, tick(m.tickID)

	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil || math.IsNaN(v) {
			m.status = fmt.Sprintf("not a number: %q", m.input.Value())
		} else {
			note, adjusted := m.setSlider(m.cursor, v)
			m.recompute()
			m.status = ""
			if adjusted {
				m.status = "adjusted to slider limits: " + note
			}
		}
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.sliders)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Left):
		m.change(-1)
	case key.Matches(msg, keys.Right):
		m.change(1)
	case key.Matches(msg, keys.BigLeft):
		m.change(-10)
	case key.Matches(msg, keys.BigRight):
		m.change(10)
	case key.Matches(msg, keys.Reset):
		m.sliders[m.cursor].reset()
		m.recompute()
	case key.Matches(msg, keys.Edit):
		m.editing = true
		m.input.SetValue(m.sliders[m.cursor].format())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, keys.View):
		m.view = (m.view + 1) % viewCount
	case key.Matches(msg, keys.Play):
		if m.result == nil {
			return m, nil
		}
		m.playing = !m.playing
		if m.playing {
			if m.frame >= m.result.Trajectory.Len()-1 {
				m.frame = 0
			}
			m.tickID++
			return m, tick(m.tickID)
		}
	case key.Matches(msg, keys.Download):
		return m, m.download()
	case key.Matches(msg, keys.Theme):
		m.theme = viz.NextTheme(m.theme)
		m.styles = viz.NewStyles(m.theme)
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) change(steps int) {
	before := m.sliders[m.cursor].value
	m.sliders[m.cursor].nudge(steps)
	if m.sliders[m.cursor].value != before {
		m.status = ""
		m.recompute()
	}
}

func (m *Model) download() tea.Cmd {
	res := m.result
	if res == nil {
		m.status = "nothing to download"
		return nil
	}
	m.status = "rendering…"
	r, dir := m.renderer, m.outDir
	return func() tea.Msg {
		paths, err := r.SaveAll(dir, res, export.PNG)
		return savedMsg{paths: paths, err: err}
	}
}

func (m *Model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(viz.GradientText("Interactive Simple Pendulum Simulator", m.theme.Primary, m.theme.Secondary))
	b.WriteString("\n\n")

	var panel strings.Builder
	for i, sl := range m.sliders {
		label := fmt.Sprintf("%-28s", sl.label+" ("+sl.unit+")")
		marker := "  "
		if i == m.cursor {
			marker = s.Selected.Render("▸ ")
			label = s.Selected.Render(label)
		} else {
			label = s.Label.Render(label)
		}
		value := s.Value.Render(fmt.Sprintf("%8s", sl.format()))
		panel.WriteString(marker + label + " " + s.Slider(sl.fraction(), 30) + " " + value + "\n")
	}
	if m.editing {
		panel.WriteString("\n" + m.input.View())
	}
	b.WriteString(s.Panel.Render(strings.TrimRight(panel.String(), "\n")))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(s.ErrorBanner.Render("simulation failed: "+m.err.Error()) + "\n")
	} else if m.result != nil {
		b.WriteString(m.summaryLine() + "\n\n")
		b.WriteString(m.chart() + "\n")
	}

	if m.status != "" {
		b.WriteString(s.Status.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *Model) summaryLine() string {
	s := m.styles
	field := func(label, value string) string {
		return s.Subtle.Render(label+" ") + s.Value.Render(value)
	}
	period := func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return fmt.Sprintf("%.3f s", v)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		field("period", period(m.summary.NumericPeriod)), "   ",
		field("harmonic", period(m.summary.HarmonicPeriod)), "   ",
		field("max |Δθ|", fmt.Sprintf("%.2f°", m.summary.MaxDeviation*180/math.Pi)), "   ",
		field("steps", strconv.Itoa(m.result.Stats.Steps)), "   ",
		field("view", m.view.String()),
	)
}

func (m *Model) chart() string {
	w := max(30, m.width-12)
	h := max(6, m.height/3)
	switch m.view {
	case viewPhase:
		c := viz.PhaseCanvas(m.result, w/2, h)
		return c.String()
	case viewDeviation:
		return viz.DeviationChart(m.result, w, h)
	default:
		if m.playing || m.frame > 0 {
			return m.pendulumFrame(h)
		}
		return viz.ThetaChart(m.result, w, h)
	}
}

// pendulumFrame draws the rod at the current animation frame.
func (m *Model) pendulumFrame(h int) string {
	tr := m.result.Trajectory
	theta := tr.Theta[m.frame]

	size := h * 4
	c := m.canvas
	if c == nil || c.Width != size/2+1 || c.Height != h {
		c = viz.NewCanvas(size/2+1, h)
		m.canvas = c
	} else {
		c.Clear()
	}
	cx, cy := size/2, 2
	r := float64(size/2 - 3)
	bx := cx + int(math.Round(r*math.Sin(theta)))
	by := cy + int(math.Round(r*math.Cos(theta)))
	c.DrawLine(cx, cy, bx, by)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			c.Set(bx+dx, by+dy)
		}
	}
	return c.String() + m.styles.Subtle.Render(fmt.Sprintf("t = %.2f s   θ = %.1f°", tr.Times[m.frame], theta*180/math.Pi))
}
