package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panel       lipgloss.Style
	title       lipgloss.Style
	subtle      lipgloss.Style
	metricValue lipgloss.Style
	metricLabel lipgloss.Style
	keyHint     lipgloss.Style
	selected    lipgloss.Style

	sparkHigh lipgloss.Style
	sparkMid  lipgloss.Style
	sparkLow  lipgloss.Style

	statusColors map[string]lipgloss.Color
)

func init() {
	applyTheme(ThemeCyberpunk)
}

// applyTheme rebuilds every package style from t.
func applyTheme(t Theme) {
	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	subtle = lipgloss.NewStyle().
		Foreground(t.Muted)

	metricValue = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)

	metricLabel = lipgloss.NewStyle().
		Foreground(t.Text)

	keyHint = lipgloss.NewStyle().
		Foreground(t.Muted).
		Italic(true)

	selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Reverse(true)

	sparkHigh = lipgloss.NewStyle().Foreground(t.Success)
	sparkMid = lipgloss.NewStyle().Foreground(t.Warning)
	sparkLow = lipgloss.NewStyle().Foreground(t.Error)

	statusColors = map[string]lipgloss.Color{
		"gray":   t.Text,
		"red":    t.Error,
		"yellow": t.Warning,
		"orange": t.Alert,
		"green":  t.Success,
	}
}

// statusStyle maps an engine status color name to a terminal style.
func statusStyle(color string) lipgloss.Style {
	c, ok := statusColors[color]
	if !ok {
		c = statusColors["gray"]
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// gauge fills width cells by fraction. High values render red when
// highIsBad, e.g. for rpm and temperature.
func gauge(fraction float64, width int, highIsBad bool) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	good, bad := sparkHigh, sparkLow
	if highIsBad {
		good, bad = bad, good
	}
	if fraction > 0.8 {
		return good.Render(bar)
	} else if fraction > 0.4 {
		return sparkMid.Render(bar)
	}
	return bad.Render(bar)
}

func separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return subtle.Render(left + " ◆ " + right)
}
