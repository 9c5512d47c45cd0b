package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view. Circle colors come from the
// continent palette and do not change with the theme.
type Theme struct {
	Name      string
	Title     lipgloss.Color
	Axis      lipgloss.Color
	Year      lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Title:     lipgloss.Color("#ff00ff"),
		Axis:      lipgloss.Color("#00ffff"),
		Year:      lipgloss.Color("#ffff00"),
		Highlight: lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Title:     lipgloss.Color("#00ff00"),
		Axis:      lipgloss.Color("#00cc00"),
		Year:      lipgloss.Color("#88ff88"),
		Highlight: lipgloss.Color("#ccffcc"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Title:     lipgloss.Color("#ffffff"),
		Axis:      lipgloss.Color("#cccccc"),
		Year:      lipgloss.Color("#999999"),
		Highlight: lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Title:     lipgloss.Color("#0077be"),
		Axis:      lipgloss.Color("#00a8cc"),
		Year:      lipgloss.Color("#ffd700"),
		Highlight: lipgloss.Color("#e0f0ff"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Title:     lipgloss.Color("#ff6b6b"),
		Axis:      lipgloss.Color("#feca57"),
		Year:      lipgloss.Color("#ff9ff3"),
		Highlight: lipgloss.Color("#fff5f5"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Warning:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// HasTheme reports whether name is a built-in theme.
func HasTheme(name string) bool {
	for _, t := range Themes {
		if t.Name == name {
			return true
		}
	}
	return false
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
