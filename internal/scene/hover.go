package scene

import (
	"sort"
	"time"

	"github.com/san-kum/bubblechart/internal/chart"
)

// Hover marks the circle with key as hovered. It reports false when no
// such circle is on screen.
func (s *Scene) Hover(key string) bool {
	if _, ok := s.circles[key]; !ok {
		return false
	}
	s.hovered = key
	return true
}

// HoverAt hovers the top-most circle under (x, y) at time at. A miss clears
// the hover.
func (s *Scene) HoverAt(x, y float64, at time.Duration) (string, bool) {
	states := s.Sample(at)
	for i := len(states) - 1; i >= 0; i-- {
		if states[i].Contains(x, y) {
			s.hovered = states[i].Key
			return s.hovered, true
		}
	}
	s.hovered = ""
	return "", false
}

// HoverNext moves the hover to the next circle to the right (dir > 0) or
// left (dir < 0) of the current one, wrapping around. With nothing hovered
// it starts from the left-most or right-most circle.
func (s *Scene) HoverNext(dir int, at time.Duration) (string, bool) {
	states := s.Sample(at)
	live := states[:0]
	for _, st := range states {
		if !st.Exiting {
			live = append(live, st)
		}
	}
	if len(live) == 0 {
		s.hovered = ""
		return "", false
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].X < live[j].X })

	idx := -1
	for i, st := range live {
		if st.Key == s.hovered {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && dir < 0:
		idx = len(live) - 1
	case idx < 0:
		idx = 0
	case dir < 0:
		idx = (idx - 1 + len(live)) % len(live)
	default:
		idx = (idx + 1) % len(live)
	}
	s.hovered = live[idx].Key
	return s.hovered, true
}

// Unhover hides the tooltip.
func (s *Scene) Unhover() { s.hovered = "" }

// Hovered returns the key of the hovered circle, if any.
func (s *Scene) Hovered() (string, bool) {
	return s.hovered, s.hovered != ""
}

// Tooltip returns the tooltip of the hovered circle. The content follows
// the record of the circle's latest frame.
func (s *Scene) Tooltip() (chart.Tooltip, bool) {
	c, ok := s.circles[s.hovered]
	if !ok {
		return chart.Tooltip{}, false
	}
	return chart.NewTooltip(c.record), true
}
