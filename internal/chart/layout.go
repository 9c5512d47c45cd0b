package chart

// Margins around the plot area, in output units.
type Margins struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

var DefaultMargins = Margins{Left: 50, Right: 50, Top: 10, Bottom: 40}

// DefaultChrome is the vertical space taken by the surrounding page.
const DefaultChrome = 80

// Layout is the plot area geometry, computed once per mount.
type Layout struct {
	Margins Margins
	Width   float64 // plot area
	Height  float64 // plot area
}

// NewLayout derives the plot area from the container width and the
// viewport height. Sizes that would go negative clamp to zero.
func NewLayout(containerWidth, viewportHeight, chrome float64, m Margins) Layout {
	w := containerWidth - m.Left - m.Right
	h := viewportHeight - chrome - m.Top - m.Bottom
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Layout{Margins: m, Width: w, Height: h}
}

// OuterWidth is the full drawing width including margins.
func (l Layout) OuterWidth() float64 { return l.Width + l.Margins.Left + l.Margins.Right }

// OuterHeight is the full drawing height including margins.
func (l Layout) OuterHeight() float64 { return l.Height + l.Margins.Top + l.Margins.Bottom }
