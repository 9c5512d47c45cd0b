package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
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

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels and one
// foreground color; the last color written to a cell wins.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int, col lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	if col != "" {
		c.Colors[row][cx] = col
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][cx] < blank {
		c.Grid[row][cx] = blank
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col lipgloss.Color) {
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
		c.Set(x0, y0, col)
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

// FillCircle sets every sub-pixel whose center lies within r of (cx, cy).
// Circles smaller than a sub-pixel still mark their center.
func (c *Canvas) FillCircle(cx, cy, r float64, col lipgloss.Color) {
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				c.Set(x, y, col)
			}
		}
	}
	c.Set(int(cx), int(cy), col)
}

// String renders the canvas without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with each run of same-colored cells styled as
// one segment. Uncolored cells use base.
func (c *Canvas) Render(base lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			style := base
			if col := c.Colors[i][start]; col != "" {
				style = base.Foreground(col)
			}
			b.WriteString(style.Render(string(row[start:j])))
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Viewport maps chart plot-area coordinates onto a canvas, keeping the
// aspect ratio so circles stay round.
type Viewport struct {
	Scale    float64
	OffX     float64
	OffY     float64
	MarginL  float64
	MarginT  float64
	SubW     int
	SubH     int
	CellCols int
	CellRows int
}

// Fit scales an outer chart size of w by h into cols by rows braille cells.
func Fit(w, h, marginLeft, marginTop float64, cols, rows int) Viewport {
	v := Viewport{MarginL: marginLeft, MarginT: marginTop, SubW: cols * 2, SubH: rows * 4, CellCols: cols, CellRows: rows}
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return v
	}
	v.Scale = math.Min(float64(v.SubW)/w, float64(v.SubH)/h)
	v.OffX = (float64(v.SubW) - w*v.Scale) / 2
	v.OffY = (float64(v.SubH) - h*v.Scale) / 2
	return v
}

// ToSub converts plot-area coordinates to sub-pixels.
func (v Viewport) ToSub(x, y float64) (float64, float64) {
	return v.OffX + (v.MarginL+x)*v.Scale, v.OffY + (v.MarginT+y)*v.Scale
}

// ToCell converts plot-area coordinates to a cell column and row.
func (v Viewport) ToCell(x, y float64) (int, int) {
	sx, sy := v.ToSub(x, y)
	return int(sx) / 2, int(sy) / 4
}

// FromCell converts the center of a cell back to plot-area coordinates.
func (v Viewport) FromCell(col, row int) (float64, float64) {
	if v.Scale == 0 {
		return math.NaN(), math.NaN()
	}
	sx, sy := float64(col)*2+1, float64(row)*4+2
	return (sx-v.OffX)/v.Scale - v.MarginL, (sy-v.OffY)/v.Scale - v.MarginT
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Text writes s into cells starting at (col, row), replacing any dots.
func (c *Canvas) Text(col, row int, s string, color lipgloss.Color) {
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range []rune(s) {
		x := col + i
		if x < 0 || x >= c.Width {
			continue
		}
		c.Grid[row][x] = r
		c.Colors[row][x] = color
	}
}
