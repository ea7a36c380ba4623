package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the dashboard color scheme.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Alert     lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#00ffff"),
		Secondary: lipgloss.Color("#00ccff"),
		Accent:    lipgloss.Color("#ff00ff"),
		Border:    lipgloss.Color("#444466"),
		Text:      lipgloss.Color("#888899"),
		Muted:     lipgloss.Color("#666688"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Alert:     lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#88ff88"),
		Accent:    lipgloss.Color("#ccffcc"),
		Border:    lipgloss.Color("#005500"),
		Text:      lipgloss.Color("#00cc00"),
		Muted:     lipgloss.Color("#007700"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Alert:     lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Border:    lipgloss.Color("#444444"),
		Text:      lipgloss.Color("#aaaaaa"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Alert:     lipgloss.Color("#ff7700"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Border:    lipgloss.Color("#8b6b8c"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Success:   lipgloss.Color("#5fd068"),
		Warning:   lipgloss.Color("#ffc048"),
		Alert:     lipgloss.Color("#ff9f43"),
		Error:     lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetro,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns the named theme, or cyberpunk when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
