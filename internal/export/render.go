package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/san-kum/pendulab/internal/dynamo"
)

const (
	ThetaFile = "theta_t"
	PhaseFile = "phase_space"

	DefaultWidthIn  = 6.4
	DefaultHeightIn = 4.8
	DefaultDPI      = 300
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, SVG:
		return Format(s), nil
	case "":
		return PNG, nil
	default:
		return "", fmt.Errorf("unknown image format: %s", s)
	}
}

var (
	numericColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	harmonicColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

const degPerRad = 180 / math.Pi

// Renderer draws a result as the two figures of the simulator and encodes
// them as PNG or SVG. Angles are shown in degrees.
type Renderer struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

func NewRenderer(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{WidthIn: DefaultWidthIn, HeightIn: DefaultHeightIn, DPI: dpi}
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.Title.Padding = vg.Points(6)

	p.X.Label.TextStyle.Font.Size = vg.Points(11)
	p.Y.Label.TextStyle.Font.Size = vg.Points(11)
	p.X.Padding = vg.Points(4)
	p.Y.Padding = vg.Points(4)

	p.X.Tick.Label.Font.Size = vg.Points(9)
	p.Y.Tick.Label.Font.Size = vg.Points(9)

	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(9)

	p.Add(plotter.NewGrid())
}

func degrees(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = v * degPerRad
	}
	return out
}

func xys(xs, ys []float64) (plotter.XYs, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, fmt.Errorf("plot data invalid: %d x values, %d y values", len(xs), len(ys))
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts, nil
}

// TimeSeries plots θ(t) numeric against the dashed harmonic curve.
func (r *Renderer) TimeSeries(res *dynamo.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "θ(t)"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Angle θ (degrees)"
	stylePlot(p)

	pts, err := xys(res.Trajectory.Times, degrees(res.Trajectory.Theta))
	if err != nil {
		return nil, err
	}
	numeric, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	numeric.LineStyle.Width = vg.Points(1.5)
	numeric.LineStyle.Color = numericColor

	pts, err = xys(res.Harmonic.Times, degrees(res.Harmonic.Theta))
	if err != nil {
		return nil, err
	}
	harmonic, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	harmonic.LineStyle.Width = vg.Points(1.5)
	harmonic.LineStyle.Color = harmonicColor
	harmonic.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	p.Add(numeric, harmonic)
	p.Legend.Add("Numerical Solution", numeric)
	p.Legend.Add("Harmonic Approximation", harmonic)
	return p, nil
}

// PhaseSpace plots ω against θ.
func (r *Renderer) PhaseSpace(res *dynamo.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Phase Space"
	p.X.Label.Text = "Angle θ (degrees)"
	p.Y.Label.Text = "Angular Velocity ω (degrees/s)"
	stylePlot(p)

	pts, err := xys(degrees(res.Trajectory.Theta), degrees(res.Trajectory.Omega))
	if err != nil {
		return nil, err
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = numericColor

	p.Add(line)
	p.Legend.Add("Trajectory in Phase Space", line)
	return p, nil
}

// Write encodes p to w.
func (r *Renderer) Write(w io.Writer, p *plot.Plot, f Format) error {
	width := vg.Length(r.WidthIn) * vg.Inch
	height := vg.Length(r.HeightIn) * vg.Inch

	switch f {
	case SVG:
		c := vgsvg.New(width, height)
		p.Draw(draw.New(c))
		if _, err := c.WriteTo(w); err != nil {
			return fmt.Errorf("cannot write svg: %w", err)
		}
	case PNG, "":
		c := vgimg.NewWith(
			vgimg.UseWH(width, height),
			vgimg.UseDPI(r.DPI),
		)
		p.Draw(draw.New(c))
		pngc := vgimg.PngCanvas{Canvas: c}
		if _, err := pngc.WriteTo(w); err != nil {
			return fmt.Errorf("cannot write png: %w", err)
		}
	default:
		return fmt.Errorf("unknown image format: %s", f)
	}
	return nil
}

// WriteTimeSeries renders and encodes the θ(t) figure in one call.
func (r *Renderer) WriteTimeSeries(w io.Writer, res *dynamo.Result, f Format) error {
	p, err := r.TimeSeries(res)
	if err != nil {
		return err
	}
	return r.Write(w, p, f)
}

// WritePhaseSpace renders and encodes the phase-space figure in one call.
func (r *Renderer) WritePhaseSpace(w io.Writer, res *dynamo.Result, f Format) error {
	p, err := r.PhaseSpace(res)
	if err != nil {
		return err
	}
	return r.Write(w, p, f)
}

// SaveAll writes theta_t.<ext> and phase_space.<ext> into dir and returns
// their paths.
func (r *Renderer) SaveAll(dir string, res *dynamo.Result, f Format) ([]string, error) {
	if f == "" {
		f = PNG
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}

	figures := []struct {
		name  string
		write func(io.Writer, *dynamo.Result, Format) error
	}{
		{ThetaFile, r.WriteTimeSeries},
		{PhaseFile, r.WritePhaseSpace},
	}

	paths := make([]string, 0, len(figures))
	for _, fig := range figures {
		path := filepath.Join(dir, fig.name+"."+string(f))
		if err := writeFile(path, func(w io.Writer) error { return fig.write(w, res, f) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := fn(bw); err != nil {
		return err
	}
	return bw.Flush()
}
