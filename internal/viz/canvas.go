package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// dotBits maps a sub-pixel (row, col) inside a braille cell to its bit.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel grid. Each character holds 2x4 dots, so a
// canvas of w×h characters has 2w×4h addressable pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) locate(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	row, col = y/4, x/2
	if row >= c.Height || col >= c.Width {
		return 0, 0, 0, false
	}
	return row, col, dotBits[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.locate(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.locate(x, y); ok {
		c.Grid[row][col] = brailleBlank | (c.Grid[row][col] &^ bit)
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.locate(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// DrawLine draws a Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDot fills a (2r+1)-wide square centred on (x, y).
func (c *Canvas) DrawDot(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Projector maps data coordinates onto canvas dots with a margin, y up.
type Projector struct {
	minX, minY     float64
	scaleX, scaleY float64
	w, h, margin   int
}

func NewProjector(xs, ys []float64, c *Canvas, margin int) Projector {
	w, h := c.PixelSize()
	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)
	spanX, spanY := math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)
	return Projector{
		minX:   minX,
		minY:   minY,
		scaleX: float64(w-1-2*margin) / spanX,
		scaleY: float64(h-1-2*margin) / spanY,
		w:      w,
		h:      h,
		margin: margin,
	}
}

func (p Projector) Project(x, y float64) (int, int) {
	px := p.margin + int(math.Round((x-p.minX)*p.scaleX))
	py := p.h - 1 - p.margin - int(math.Round((y-p.minY)*p.scaleY))
	return px, py
}

func bounds(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 1
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
