package chart

import (
	"github.com/san-kum/bubblechart/internal/format"
)

type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Axis is a set of ticks along one edge of the plot area. Pos is the
// horizontal position for the x axis and the vertical one for the y axis.
type Axis struct {
	Ticks []Tick
}

// XAxis is the income axis along the bottom edge.
func (c *Chart) XAxis() Axis {
	ticks := make([]Tick, 0, len(c.opts.XTicks))
	for _, v := range c.opts.XTicks {
		ticks = append(ticks, Tick{Value: v, Pos: c.X.Map(v), Label: format.TickCurrency(v)})
	}
	return Axis{Ticks: ticks}
}

// YAxis is the life expectancy axis along the left edge.
func (c *Chart) YAxis() Axis {
	values := c.Y.Ticks(c.opts.YTickCount)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{Value: v, Pos: c.Y.Map(v), Label: format.Tick(v)})
	}
	return Axis{Ticks: ticks}
}

// Label is a piece of static text in plot-area coordinates. Rotate is in
// degrees and applies around the origin before translation, as in SVG.
type Label struct {
	Text     string
	X, Y     float64
	Rotate   float64
	FontSize float64
}

const (
	XTitle = "GDP Per Capita"
	YTitle = "Life Expectancy (Years)"
)

// Titles returns the two axis titles.
func (c *Chart) Titles() (x, y Label) {
	l := c.Layout
	x = Label{Text: XTitle, X: l.Width / 2, Y: l.Height + l.Margins.Bottom - 5, FontSize: 18}
	y = Label{Text: YTitle, X: -(l.Height / 2), Y: -30, Rotate: -90, FontSize: 18}
	return x, y
}

// YearLabel positions the year indicator at the right end of the plot area,
// just above the x axis.
func (c *Chart) YearLabel(year int) Label {
	return Label{Text: format.Tick(float64(year)), X: c.Layout.Width, Y: c.Layout.Height - 3, FontSize: 40}
}
