// Package scene keeps the keyed set of circles on screen and animates them
// between frames. Time is passed in explicitly as an offset from an
// arbitrary origin so the same scene can run on a wall clock (live view) or
// on a virtual one (GIF export).
package scene

import (
	"math"
	"time"

	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/reconcile"
)

type Attrs struct {
	X, Y, R float64
}

func (a Attrs) lerp(b Attrs, t float64) Attrs {
	return Attrs{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		R: a.R + (b.R-a.R)*t,
	}
}

// State is a circle as it should be drawn at a given instant.
type State struct {
	Attrs
	Key       string
	Class     string
	Continent dataset.Continent
	Record    dataset.Record
	Exiting   bool
}

// Contains reports whether (x, y) lies inside the circle.
func (s State) Contains(x, y float64) bool {
	dx, dy := x-s.X, y-s.Y
	return dx*dx+dy*dy <= s.R*s.R
}

type circle struct {
	key       string
	class     string
	continent dataset.Continent
	record    dataset.Record
	from, to  Attrs
	start     time.Duration
	exiting   bool
}

type Scene struct {
	chart    *chart.Chart
	duration time.Duration
	ease     func(float64) float64

	circles map[string]*circle
	order   []string
	year    int
	hovered string
}

// New creates an empty scene whose transitions last d.
func New(c *chart.Chart, d time.Duration) *Scene {
	return &Scene{
		chart:    c,
		duration: d,
		ease:     CubicInOut,
		circles:  make(map[string]*circle),
	}
}

// CubicInOut is the default transition easing.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func (s *Scene) Chart() *chart.Chart { return s.chart }

// SetChart swaps the chart used for later frames. Running transitions keep
// their endpoints.
func (s *Scene) SetChart(c *chart.Chart) { s.chart = c }

// Year is the year of the last applied frame.
func (s *Scene) Year() int { return s.year }

// Apply reconciles the scene against v at time at and starts the
// transitions towards it. Circles that are still leaving count as present,
// so a country that comes back before its exit finishes turns around
// instead of being recreated.
func (s *Scene) Apply(v chart.View, at time.Duration) reconcile.Plan[string, chart.Point] {
	s.prune(at)
	s.year = v.Year
	baseline := s.chart.Baseline()

	plan := reconcile.Diff(s.order, v.Points, func(p chart.Point) string { return p.Key })

	for _, key := range plan.Exit {
		c := s.circles[key]
		if c.exiting {
			continue
		}
		cur := s.attrsAt(c, at)
		c.from = cur
		c.to = Attrs{X: cur.X, Y: baseline, R: cur.R}
		c.start = at
		c.exiting = true
	}

	for _, p := range plan.Enter {
		s.circles[p.Key] = &circle{
			key:       p.Key,
			class:     p.Class,
			continent: p.Continent,
			record:    p.Record,
			from:      Attrs{X: p.X, Y: baseline, R: p.R},
			to:        Attrs{X: p.X, Y: p.Y, R: p.R},
			start:     at,
		}
		s.order = append(s.order, p.Key)
	}

	for _, p := range plan.Update {
		c := s.circles[p.Key]
		c.from = s.attrsAt(c, at)
		c.to = Attrs{X: p.X, Y: p.Y, R: p.R}
		c.start = at
		c.exiting = false
		c.class = p.Class
		c.continent = p.Continent
		c.record = p.Record
	}

	return plan
}

// Sample returns the circles at time at in draw order, dropping circles
// whose exit has finished.
func (s *Scene) Sample(at time.Duration) []State {
	s.prune(at)
	out := make([]State, 0, len(s.order))
	for _, key := range s.order {
		c := s.circles[key]
		out = append(out, State{
			Attrs:     s.attrsAt(c, at),
			Key:       c.key,
			Class:     c.class,
			Continent: c.continent,
			Record:    c.record,
			Exiting:   c.exiting,
		})
	}
	return out
}

// Settled reports whether every transition has finished by time at.
func (s *Scene) Settled(at time.Duration) bool {
	for _, c := range s.circles {
		if at < c.start+s.duration {
			return false
		}
	}
	return true
}

// Keys returns the keys of circles that are not leaving, in draw order.
func (s *Scene) Keys() []string {
	out := make([]string, 0, len(s.order))
	for _, key := range s.order {
		if !s.circles[key].exiting {
			out = append(out, key)
		}
	}
	return out
}

// Len is the number of circles, leaving ones included.
func (s *Scene) Len() int { return len(s.order) }

func (s *Scene) progress(c *circle, at time.Duration) float64 {
	if s.duration <= 0 {
		return 1
	}
	t := float64(at-c.start) / float64(s.duration)
	return math.Max(0, math.Min(1, t))
}

func (s *Scene) attrsAt(c *circle, at time.Duration) Attrs {
	return c.from.lerp(c.to, s.ease(s.progress(c, at)))
}

func (s *Scene) prune(at time.Duration) {
	kept := s.order[:0]
	for _, key := range s.order {
		c := s.circles[key]
		if c.exiting && s.progress(c, at) >= 1 {
			delete(s.circles, key)
			if s.hovered == key {
				s.hovered = ""
			}
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
}

// Settle returns the circles of v at rest, without any transition. Static
// renderers use it to draw a single frame.
func Settle(v chart.View) []State {
	out := make([]State, 0, len(v.Points))
	for _, p := range v.Points {
		out = append(out, State{
			Attrs:     Attrs{X: p.X, Y: p.Y, R: p.R},
			Key:       p.Key,
			Class:     p.Class,
			Continent: p.Continent,
			Record:    p.Record,
		})
	}
	return out
}
