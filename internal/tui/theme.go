package tui

import "github.com/charmbracelet/lipgloss"

var themeColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("#5B8DEF"),
	"green":  lipgloss.Color("#4CAF50"),
	"orange": lipgloss.Color("#F28C28"),
	"violet": lipgloss.Color("#9B6DFF"),
	"gold":   lipgloss.Color("#F7B801"),
}

const defaultAccent = lipgloss.Color("#FF6B6B")

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(defaultAccent).MarginBottom(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	bodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	panelBorder  = lipgloss.Color("#444444")
	debugBorder  = lipgloss.Color("#F7B801")
	selectedMark = "▸ "
)

const completedMark = "✓ "

// accent returns the colour for a dimension theme tag.
func accent(tag string) lipgloss.Color {
	if c, ok := themeColors[tag]; ok {
		return c
	}
	return defaultAccent
}

func titleStyle(tag string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent(tag))
}

func boxStyle(border lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(20, width))
}
