package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Bounds is a world-space rectangle mapped onto the whole canvas.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// BoundsOf returns the bounding box of xs, ys padded by pad of each span.
func BoundsOf(xs, ys []float64, pad float64) Bounds {
	b := Bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for i := range xs {
		b.MinX = math.Min(b.MinX, xs[i])
		b.MaxX = math.Max(b.MaxX, xs[i])
		b.MinY = math.Min(b.MinY, ys[i])
		b.MaxY = math.Max(b.MaxY, ys[i])
	}
	if len(xs) == 0 {
		return Bounds{-1, 1, -1, 1}
	}
	if b.MaxX == b.MinX {
		b.MinX, b.MaxX = b.MinX-1, b.MaxX+1
	}
	if b.MaxY == b.MinY {
		b.MinY, b.MaxY = b.MinY-1, b.MaxY+1
	}
	dx, dy := (b.MaxX-b.MinX)*pad, (b.MaxY-b.MinY)*pad
	return Bounds{b.MinX - dx, b.MaxX + dx, b.MinY - dy, b.MaxY + dy}
}

func (c *Canvas) toPixel(b Bounds, x, y float64) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	px := (x - b.MinX) / (b.MaxX - b.MinX) * w
	py := (b.MaxY - y) / (b.MaxY - b.MinY) * h
	return int(math.Round(px)), int(math.Round(py))
}

// Polyline connects consecutive points, skipping non-finite ones.
func (c *Canvas) Polyline(b Bounds, xs, ys []float64) {
	havePrev := false
	var px, py int
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			havePrev = false
			continue
		}
		x, y := c.toPixel(b, xs[i], ys[i])
		if havePrev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, havePrev = x, y, true
	}
}

// Axes draws x = 0 and y = 0 when they fall inside b.
func (c *Canvas) Axes(b Bounds) {
	if b.MinX <= 0 && b.MaxX >= 0 {
		x0, y0 := c.toPixel(b, 0, b.MaxY)
		_, y1 := c.toPixel(b, 0, b.MinY)
		for y := y0; y <= y1; y += 2 {
			c.Set(x0, y)
		}
	}
	if b.MinY <= 0 && b.MaxY >= 0 {
		x0, y0 := c.toPixel(b, b.MinX, 0)
		x1, _ := c.toPixel(b, b.MaxX, 0)
		for x := x0; x <= x1; x += 2 {
			c.Set(x, y0)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
