package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBrand  = lipgloss.Color("#4F46E5")
	colorMuted  = lipgloss.Color("#888888")
	colorSubtle = lipgloss.Color("#AAAAAA")
	colorBorder = lipgloss.Color("#444444")
	colorAccent = lipgloss.Color("#5B8DEF")
	colorError  = lipgloss.Color("#EF4444")
	colorGold   = lipgloss.Color("#F59E0B")
	colorGood   = lipgloss.Color("#22C55E")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand)
)
