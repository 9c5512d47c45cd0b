package export

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/scene"
)

const tickSize = 6

// SVG renders the chart with circles as given. Each circle carries a
// <title> with its tooltip, which viewers show on hover.
func SVG(c *chart.Chart, year int, circles []scene.State) string {
	l := c.Layout
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, l.OuterWidth(), l.OuterHeight(), l.OuterWidth(), l.OuterHeight()))
	writeStyle(&sb)
	sb.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>
`)
	sb.WriteString(fmt.Sprintf(`<g transform="translate(%g, %g)">
`, l.Margins.Left, l.Margins.Top))

	writeXAxis(&sb, c)
	writeYAxis(&sb, c)

	xt, yt := c.Titles()
	writeLabel(&sb, xt, "")
	writeLabel(&sb, yt, "")
	writeLabel(&sb, c.YearLabel(year), "year-label")

	writeLegend(&sb, c)

	for _, st := range circles {
		sb.WriteString(fmt.Sprintf(`<circle class="%s" cx="%.2f" cy="%.2f" r="%.2f" data-country="%s"><title>%s</title></circle>
`, st.Class, st.X, st.Y, st.R, html.EscapeString(st.Key), html.EscapeString(chart.NewTooltip(st.Record).String())))
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// FrameSVG renders a settled frame.
func FrameSVG(c *chart.Chart, v chart.View) string {
	return SVG(c, v.Year, scene.Settle(v))
}

func writeStyle(sb *strings.Builder) {
	sb.WriteString("<style>\n")
	sb.WriteString(".point { stroke: #000000; stroke-width: 0.5; fill-opacity: 0.8; }\n")
	conts := make([]string, 0, len(chart.Palette))
	for c := range chart.Palette {
		conts = append(conts, string(c))
	}
	sort.Strings(conts)
	for _, c := range conts {
		sb.WriteString(fmt.Sprintf(".fill-%s { fill: %s; }\n", strings.ToLower(c), chart.Palette[dataset.Continent(c)]))
	}
	sb.WriteString(fmt.Sprintf(".fill-unknown { fill: %s; }\n", chart.UnknownColor))
	sb.WriteString(".axis line, .axis path { stroke: #000000; fill: none; }\n")
	sb.WriteString(".axis text { font: 10px sans-serif; fill: #000000; }\n")
	sb.WriteString(".year-label { font: 40px sans-serif; fill: #999999; text-anchor: end; }\n")
	sb.WriteString(".legend { font: 12px sans-serif; text-anchor: middle; }\n")
	sb.WriteString("</style>\n")
}

func writeXAxis(sb *strings.Builder, c *chart.Chart) {
	l := c.Layout
	sb.WriteString(fmt.Sprintf(`<g class="x axis" transform="translate(0, %g)">
<path d="M0,%d V0 H%.2f V%d"/>
`, l.Height, tickSize, l.Width, tickSize))
	for _, t := range c.XAxis().Ticks {
		sb.WriteString(fmt.Sprintf(`<g class="tick" transform="translate(%.2f, 0)"><line y2="%d"/><text y="%d" dy="0.71em" text-anchor="middle">%s</text></g>
`, t.Pos, tickSize, tickSize+3, html.EscapeString(t.Label)))
	}
	sb.WriteString("</g>\n")
}

func writeYAxis(sb *strings.Builder, c *chart.Chart) {
	l := c.Layout
	sb.WriteString(fmt.Sprintf(`<g class="y axis">
<path d="M-%d,%.2f H0 V0 H-%d"/>
`, tickSize, l.Height, tickSize))
	for _, t := range c.YAxis().Ticks {
		sb.WriteString(fmt.Sprintf(`<g class="tick" transform="translate(0, %.2f)"><line x2="-%d"/><text x="-%d" dy="0.32em" text-anchor="end">%s</text></g>
`, t.Pos, tickSize, tickSize+3, html.EscapeString(t.Label)))
	}
	sb.WriteString("</g>\n")
}

func writeLabel(sb *strings.Builder, lb chart.Label, class string) {
	attrs := ""
	if class != "" {
		attrs = fmt.Sprintf(` class="%s"`, class)
	} else {
		attrs = fmt.Sprintf(` text-anchor="middle" font-size="%gpx"`, lb.FontSize)
	}
	if lb.Rotate != 0 {
		attrs += fmt.Sprintf(` transform="rotate(%g)"`, lb.Rotate)
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f"%s>%s</text>
`, lb.X, lb.Y, attrs, html.EscapeString(lb.Text)))
}

func writeLegend(sb *strings.Builder, c *chart.Chart) {
	sb.WriteString("<g class=\"legend-group\">\n")
	for _, e := range c.Legend() {
		sb.WriteString(fmt.Sprintf(`<rect class="%s" x="%.2f" y="%.2f" width="%d" height="%d"/>
<text class="legend" x="%.2f" y="%.2f">%s</text>
`, e.Class, e.SwatchX, e.SwatchY, chart.SwatchSize, chart.SwatchSize, e.LabelX, e.LabelY, html.EscapeString(string(e.Continent))))
	}
	sb.WriteString("</g>\n")
}
