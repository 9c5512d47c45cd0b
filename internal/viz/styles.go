package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header  lipgloss.Style
	status  lipgloss.Style
	paused  lipgloss.Style
	year    lipgloss.Style
	panel   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	hint    lipgloss.Style
	graph   lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	axis    lipgloss.Style
	tooltip lipgloss.Style
	help    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		status: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		paused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		year:   lipgloss.NewStyle().Bold(true).Foreground(t.Year),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(panelWidth),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(17),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		graph:   lipgloss.NewStyle().Foreground(t.Axis).Padding(1, 0),
		warning: lipgloss.NewStyle().Foreground(t.Warning),
		err:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		axis:    lipgloss.NewStyle().Foreground(t.Axis),
		tooltip: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Highlight).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Title).
			Padding(0, 2),
	}
}

// ProgressBar renders how far through the frames the animation is.
func ProgressBar(percent float64, width int, st lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return st.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// Swatch is a colored dot followed by a label.
func Swatch(color lipgloss.Color, label string) string {
	return lipgloss.NewStyle().Foreground(color).Render("●") + " " + label
}
