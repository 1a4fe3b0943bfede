package viz

import (
	"math"
	"strings"

	"github.com/san-kum/rigidsim/internal/geom"
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

const blank = 0x2800

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
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set sets a dot at (x, y) in sub-pixel coordinates. The canvas is
// Width*2 by Height*4 dots.
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

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
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

// DrawPolygon outlines a closed polygon given in world coordinates.
func (c *Canvas) DrawPolygon(vp Viewport, verts []geom.Vec2) {
	for i := range verts {
		x0, y0 := vp.Project(verts[i])
		x1, y1 := vp.Project(verts[(i+1)%len(verts)])
		c.DrawLine(x0, y0, x1, y1)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps a world rectangle onto a canvas, keeping the aspect ratio.
type Viewport struct {
	Origin geom.Vec2
	Scale  float64
}

// Fit returns the viewport that shows [min, max] on c with a margin of pad
// world units on each side.
func Fit(c *Canvas, min, max geom.Vec2, pad float64) Viewport {
	w := max.X() - min.X() + 2*pad
	h := max.Y() - min.Y() + 2*pad
	if w <= 0 || h <= 0 {
		return Viewport{Origin: min, Scale: 1}
	}
	sx := float64(c.Width*2-1) / w
	sy := float64(c.Height*4-1) / h
	return Viewport{
		Origin: min.Sub(geom.V(pad, pad)),
		Scale:  math.Min(sx, sy),
	}
}

func (vp Viewport) Project(p geom.Vec2) (int, int) {
	q := p.Sub(vp.Origin).Scale(vp.Scale)
	return int(math.Round(q.X())), int(math.Round(q.Y()))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
