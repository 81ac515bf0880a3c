package analysis

import (
	"strings"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// PhasePortrait2D holds the (θ, ω) trajectory of one run.
type PhasePortrait2D struct {
	Points []struct{ X, Y float64 }
}

// NewPhasePortrait reads the phase trajectory off a result. scale converts
// units, e.g. 180/π for degrees; 0 means 1.
func NewPhasePortrait(traj *dynamo.Trajectory, scale float64) *PhasePortrait2D {
	if traj == nil {
		return nil
	}
	if scale == 0 {
		scale = 1
	}
	portrait := &PhasePortrait2D{
		Points: make([]struct{ X, Y float64 }, traj.Len()),
	}
	for i := range traj.Times {
		portrait.Points[i].X = traj.Theta[i] * scale
		portrait.Points[i].Y = traj.Omega[i] * scale
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Axes first so the trajectory draws over them.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// TurningPoints records θ each time ω changes sign, interpolated between
// the bracketing samples. These are the extremes of each swing.
func TurningPoints(traj *dynamo.Trajectory) []float64 {
	var out []float64
	if traj == nil {
		return out
	}
	for i := 1; i < traj.Len(); i++ {
		prev, curr := traj.Omega[i-1], traj.Omega[i]
		if prev == 0 || (prev < 0) == (curr < 0) {
			continue
		}
		frac := prev / (prev - curr)
		out = append(out, traj.Theta[i-1]+frac*(traj.Theta[i]-traj.Theta[i-1]))
	}
	return out
}
