package scale

import "math"

// Area returns the area of a circle of radius r.
func Area(r float64) float64 {
	return r * r * math.Pi
}

// Radius maps a population onto a circle radius such that the circle's
// area, not its radius, grows linearly with population.
type Radius struct {
	area Linear
}

// NewRadius builds a radius scale for populations in [lo, hi] producing
// radii between rMin and rMax.
func NewRadius(lo, hi, rMin, rMax float64) Radius {
	return Radius{area: NewLinear(lo, hi, Area(rMin), Area(rMax))}
}

func (s Radius) Map(population float64) float64 {
	a := s.area.Map(population)
	if a < 0 {
		return 0
	}
	return math.Sqrt(a / math.Pi)
}

// Domain returns the population interval of the scale.
func (s Radius) Domain() (lo, hi float64) {
	return s.area.D0, s.area.D1
}
