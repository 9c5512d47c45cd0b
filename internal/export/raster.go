package export

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/scene"
	"golang.org/x/image/font/gofont/goregular"
)

// Raster draws chart frames into images with the gg software renderer.
type Raster struct {
	font *text.FontSource

	tick   text.Face
	title  text.Face
	legend text.Face
	year   text.Face
}

func NewRaster() (*Raster, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Raster{
		font:   src,
		tick:   src.Face(10),
		title:  src.Face(18),
		legend: src.Face(12),
		year:   src.Face(40),
	}, nil
}

// Close releases the font source.
func (r *Raster) Close() error {
	return r.font.Close()
}

// Draw renders the chart with circles as given and returns the image.
func (r *Raster) Draw(c *chart.Chart, year int, circles []scene.State) (image.Image, error) {
	dc, err := r.render(c, year, circles)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// EncodePNG draws the frame and writes it as PNG to w.
func (r *Raster) EncodePNG(w io.Writer, c *chart.Chart, year int, circles []scene.State) error {
	dc, err := r.render(c, year, circles)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

func (r *Raster) render(c *chart.Chart, year int, circles []scene.State) (*gg.Context, error) {
	l := c.Layout
	w, h := int(l.OuterWidth()), int(l.OuterHeight())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: empty canvas %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)

	dc.ClearWithColor(gg.Hex("#ffffff"))
	ox, oy := l.Margins.Left, l.Margins.Top

	if err := r.drawAxes(dc, c, ox, oy); err != nil {
		dc.Close()
		return nil, err
	}

	yl := c.YearLabel(year)
	dc.SetHexColor("#999999")
	dc.SetFont(r.year)
	dc.DrawStringAnchored(yl.Text, ox+yl.X, oy+yl.Y, 1, 0)

	if err := r.drawLegend(dc, c, ox, oy); err != nil {
		dc.Close()
		return nil, err
	}

	dc.SetLineWidth(0.5)
	for _, st := range circles {
		dc.DrawCircle(ox+st.X, oy+st.Y, st.R)
		dc.SetColor(gg.Hex(chart.ColorFor(st.Continent)).Lerp(gg.Hex("#ffffff"), 0.2).Color())
		if err := dc.FillPreserve(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("fill %s: %w", st.Key, err)
		}
		dc.SetHexColor("#000000")
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("stroke %s: %w", st.Key, err)
		}
	}
	return dc, nil
}

func (r *Raster) drawAxes(dc *gg.Context, c *chart.Chart, ox, oy float64) error {
	l := c.Layout
	dc.SetHexColor("#000000")
	dc.SetLineWidth(1)

	dc.DrawLine(ox, oy+l.Height, ox+l.Width, oy+l.Height)
	dc.DrawLine(ox, oy, ox, oy+l.Height)
	for _, t := range c.XAxis().Ticks {
		dc.DrawLine(ox+t.Pos, oy+l.Height, ox+t.Pos, oy+l.Height+tickSize)
	}
	for _, t := range c.YAxis().Ticks {
		dc.DrawLine(ox-tickSize, oy+t.Pos, ox, oy+t.Pos)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("axes: %w", err)
	}

	dc.SetFont(r.tick)
	for _, t := range c.XAxis().Ticks {
		dc.DrawStringAnchored(t.Label, ox+t.Pos, oy+l.Height+tickSize+3, 0.5, 1)
	}
	for _, t := range c.YAxis().Ticks {
		dc.DrawStringAnchored(t.Label, ox-tickSize-3, oy+t.Pos, 1, 0.35)
	}

	// Text ignores the context transform, so the y title is drawn
	// horizontally above the axis instead of rotated.
	xt, yt := c.Titles()
	dc.SetFont(r.title)
	dc.DrawStringAnchored(xt.Text, ox+xt.X, oy+xt.Y, 0.5, 0)
	dc.DrawStringAnchored(yt.Text, ox, oy, 0, 1)
	return nil
}

func (r *Raster) drawLegend(dc *gg.Context, c *chart.Chart, ox, oy float64) error {
	dc.SetFont(r.legend)
	for _, e := range c.Legend() {
		dc.DrawRectangle(ox+e.SwatchX, oy+e.SwatchY, chart.SwatchSize, chart.SwatchSize)
		dc.SetHexColor(e.Color)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("legend %s: %w", e.Continent, err)
		}
		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(string(e.Continent), ox+e.LabelX, oy+e.LabelY, 0.5, 0)
	}
	return nil
}
