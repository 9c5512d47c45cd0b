// Package scale maps data domains to visual ranges.
package scale

import "math"

// Linear maps [D0, D1] onto [R0, R1]. A degenerate domain maps every value
// to the middle of the range.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

func (s Linear) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}
	t := (v - s.D0) / span
	return s.R0 + t*(s.R1-s.R0)
}

// Ticks returns round values inside the domain, roughly count of them.
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.D0, s.D1, count)
}

// Log maps [D0, D1] onto [R0, R1] in log space. Both domain ends must be
// positive.
type Log struct {
	D0, D1 float64
	R0, R1 float64
}

func NewLog(d0, d1, r0, r1 float64) Log {
	return Log{D0: d0, D1: d1, R0: r0, R1: r1}
}

func (s Log) Map(v float64) float64 {
	l0, l1 := math.Log(s.D0), math.Log(s.D1)
	if l1 == l0 {
		return (s.R0 + s.R1) / 2
	}
	t := (math.Log(v) - l0) / (l1 - l0)
	return s.R0 + t*(s.R1-s.R0)
}

// Ticks returns evenly spaced round numbers covering [start, stop]. The
// step is 1, 2, 5 or 10 times a power of ten.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) {
		return nil
	}

	var out []float64
	if inc > 0 {
		i0, i1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := i0; i <= i1; i++ {
			out = append(out, i*inc)
		}
	} else {
		inc = -inc
		i0, i1 := math.Ceil(start*inc), math.Floor(stop*inc)
		for i := i0; i <= i1; i++ {
			out = append(out, i/inc)
		}
	}

	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns the tick step; a negative result -k means a step of
// 1/k, which keeps small steps exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
