// Package chart computes the bubble chart scene from a dataset: scales,
// axes, labels, legend, per-frame circle positions and tooltips. Nothing in
// here draws; the viz and export packages apply the computed values to a
// surface.
package chart

import (
	"fmt"

	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/scale"
)

// RadiusDomain selects which records define the population domain of the
// radius scale.
type RadiusDomain string

const (
	// DomainFrame uses the renderable records of the current frame.
	DomainFrame RadiusDomain = "frame"
	// DomainGlobal uses the renderable records of every frame.
	DomainGlobal RadiusDomain = "global"
)

type Options struct {
	XDomain      [2]float64
	YDomain      [2]float64
	RadiusRange  [2]float64
	RadiusDomain RadiusDomain
	XTicks       []float64
	YTickCount   int
}

func DefaultOptions() Options {
	return Options{
		XDomain:      [2]float64{100, 200000},
		YDomain:      [2]float64{0, 90},
		RadiusRange:  [2]float64{5, 25},
		RadiusDomain: DomainFrame,
		XTicks:       []float64{400, 4000, 40000},
		YTickCount:   10,
	}
}

type Chart struct {
	Layout Layout
	X      scale.Log
	Y      scale.Linear

	opts      Options
	globalLo  float64
	globalHi  float64
	hasGlobal bool
}

// New builds the static scales for layout. ds is only consulted for the
// global radius domain and may be nil otherwise.
func New(layout Layout, opts Options, ds *dataset.Dataset) (*Chart, error) {
	c := &Chart{
		Layout: layout,
		X:      scale.NewLog(opts.XDomain[0], opts.XDomain[1], 0, layout.Width),
		Y:      scale.NewLinear(opts.YDomain[0], opts.YDomain[1], layout.Height, 0),
		opts:   opts,
	}
	switch opts.RadiusDomain {
	case DomainFrame, "":
	case DomainGlobal:
		if ds != nil {
			c.globalLo, c.globalHi, c.hasGlobal = ds.PopulationRange()
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrRadiusDomain, opts.RadiusDomain)
	}
	return c, nil
}

func (c *Chart) Options() Options { return c.opts }

// Baseline is the y position of life expectancy zero, the anchor circles
// enter from and exit to.
func (c *Chart) Baseline() float64 { return c.Y.Map(0) }

// Point is one circle of a frame at rest.
type Point struct {
	Key       string
	X, Y, R   float64
	Class     string
	Continent dataset.Continent
	Record    dataset.Record
}

// View is the computed content of one frame.
type View struct {
	Year   int
	Points []Point
	Radius scale.Radius
	// Unknown lists countries whose continent has no color.
	Unknown []string
}

// Frame computes the positions of every renderable record of f.
func (c *Chart) Frame(f dataset.Frame) View {
	recs := f.Renderable()
	v := View{
		Year:   int(f.Year),
		Points: make([]Point, 0, len(recs)),
		Radius: c.radiusScale(recs),
	}
	for _, r := range recs {
		if !r.Continent.Known() {
			v.Unknown = append(v.Unknown, r.Country)
		}
		v.Points = append(v.Points, Point{
			Key:       r.Country,
			X:         c.X.Map(*r.Income),
			Y:         c.Y.Map(*r.LifeExp),
			R:         v.Radius.Map(r.Population),
			Class:     ClassFor(r.Continent),
			Continent: r.Continent,
			Record:    r,
		})
	}
	return v
}

// FrameForYear looks up year in ds and computes its view.
func (c *Chart) FrameForYear(ds *dataset.Dataset, year int) (View, error) {
	i := ds.FrameIndex(year)
	if i < 0 {
		return View{}, &FrameError{Year: year, Wrapped: ErrUnknownYear}
	}
	return c.Frame(ds.Frames[i]), nil
}

func (c *Chart) radiusScale(recs []dataset.Record) scale.Radius {
	rMin, rMax := c.opts.RadiusRange[0], c.opts.RadiusRange[1]
	if c.hasGlobal {
		return scale.NewRadius(c.globalLo, c.globalHi, rMin, rMax)
	}
	var lo, hi float64
	for i, r := range recs {
		if i == 0 || r.Population < lo {
			lo = r.Population
		}
		if i == 0 || r.Population > hi {
			hi = r.Population
		}
	}
	return scale.NewRadius(lo, hi, rMin, rMax)
}
