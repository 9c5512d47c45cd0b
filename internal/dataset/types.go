package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Continent string

const (
	Asia     Continent = "Asia"
	Africa   Continent = "Africa"
	Europe   Continent = "Europe"
	Americas Continent = "Americas"
)

// Continents lists the continents the chart has a color for, in legend order.
var Continents = []Continent{Asia, Africa, Europe, Americas}

func (c Continent) Known() bool {
	for _, k := range Continents {
		if c == k {
			return true
		}
	}
	return false
}

// Year accepts both "1800" and 1800 in JSON.
type Year int

func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("dataset: invalid year %q: %w", s, err)
		}
		*y = Year(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("dataset: invalid year %s: %w", b, err)
	}
	*y = Year(n)
	return nil
}

type Record struct {
	Country    string    `json:"country"`
	Continent  Continent `json:"continent"`
	Income     *float64  `json:"income"`
	LifeExp    *float64  `json:"life_exp"`
	Population float64   `json:"population"`
}

// Renderable reports whether the record can be placed on the chart. Zero
// counts as missing, matching how the source data marks gaps.
func (r Record) Renderable() bool {
	return r.Income != nil && *r.Income != 0 && r.LifeExp != nil && *r.LifeExp != 0
}

type Frame struct {
	Year      Year     `json:"year"`
	Countries []Record `json:"countries"`
}

// Renderable returns the records of the frame that have both income and
// life expectancy, in dataset order.
func (f Frame) Renderable() []Record {
	out := make([]Record, 0, len(f.Countries))
	for _, r := range f.Countries {
		if r.Renderable() {
			out = append(out, r)
		}
	}
	return out
}

type Dataset struct {
	Frames []Frame
}

func (d *Dataset) Len() int { return len(d.Frames) }

// FrameIndex returns the index of the frame for year, or -1.
func (d *Dataset) FrameIndex(year int) int {
	for i, f := range d.Frames {
		if int(f.Year) == year {
			return i
		}
	}
	return -1
}

// HistoryPoint is one renderable observation of a country.
type HistoryPoint struct {
	Year    int
	LifeExp float64
	Income  float64
}

// History returns the renderable observations of country across all frames.
func (d *Dataset) History(country string) []HistoryPoint {
	var out []HistoryPoint
	for _, f := range d.Frames {
		for _, r := range f.Countries {
			if r.Country != country || !r.Renderable() {
				continue
			}
			out = append(out, HistoryPoint{Year: int(f.Year), LifeExp: *r.LifeExp, Income: *r.Income})
			break
		}
	}
	return out
}

// PopulationRange returns min and max population over the renderable
// records of every frame. ok is false when nothing is renderable.
func (d *Dataset) PopulationRange() (lo, hi float64, ok bool) {
	for _, f := range d.Frames {
		for _, r := range f.Countries {
			if !r.Renderable() {
				continue
			}
			if !ok {
				lo, hi, ok = r.Population, r.Population, true
				continue
			}
			if r.Population < lo {
				lo = r.Population
			}
			if r.Population > hi {
				hi = r.Population
			}
		}
	}
	return lo, hi, ok
}

// Float returns a pointer to v, for building records in code.
func Float(v float64) *float64 { return &v }
