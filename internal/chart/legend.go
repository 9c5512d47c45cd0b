package chart

import (
	"strings"

	"github.com/san-kum/bubblechart/internal/dataset"
)

const (
	LegendSpacing = 40
	LegendOffset  = 70
	SwatchSize    = 10

	// UnknownClass styles circles whose continent has no palette entry.
	UnknownClass = "point fill-unknown"
)

// Palette maps continents to fill colors.
var Palette = map[dataset.Continent]string{
	dataset.Asia:     "#e41a1c",
	dataset.Africa:   "#ff7f00",
	dataset.Europe:   "#377eb8",
	dataset.Americas: "#4daf4a",
}

// UnknownColor fills circles of continents missing from Palette.
const UnknownColor = "#9e9e9e"

// ClassFor returns the style class of a circle for continent c.
func ClassFor(c dataset.Continent) string {
	if !c.Known() {
		return UnknownClass
	}
	return "point fill-" + strings.ToLower(string(c))
}

// ColorFor returns the fill color for continent c.
func ColorFor(c dataset.Continent) string {
	if col, ok := Palette[c]; ok {
		return col
	}
	return UnknownColor
}

type LegendEntry struct {
	Continent dataset.Continent
	Class     string
	Color     string
	// Swatch top-left corner and label baseline, in plot-area coordinates
	// with the legend group offset already applied.
	SwatchX, SwatchY float64
	LabelX, LabelY   float64
}

// Legend returns one entry per known continent, stacked to the right of
// the plot area.
func (c *Chart) Legend() []LegendEntry {
	x := c.Layout.Width + c.Layout.Margins.Right/2
	out := make([]LegendEntry, 0, len(dataset.Continents))
	for i, cont := range dataset.Continents {
		y := float64(i*LegendSpacing) + LegendOffset
		out = append(out, LegendEntry{
			Continent: cont,
			Class:     ClassFor(cont),
			Color:     ColorFor(cont),
			SwatchX:   x - 5,
			SwatchY:   y,
			LabelX:    x,
			LabelY:    y + 25,
		})
	}
	return out
}
