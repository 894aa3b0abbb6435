package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/grademaster/internal/content"
	"github.com/kingrea/grademaster/internal/subscription"
)

func (a *App) updateSubscription(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "s":
		if err := a.ctrl.Subscribe(a.ctx); err != nil {
			a.statusMsg = fmt.Sprintf("Could not save subscription: %v", err)
			return a, nil
		}
		a.statusMsg = ""
		a.refreshHome()
	}
	return a, nil
}

func renderSubscription(st subscription.Status, width int) string {
	price := lipgloss.NewStyle().Bold(true).Foreground(colorBrand).
		Render(fmt.Sprintf("$%d", subscription.PriceUSD)) + mutedStyle.Render(" / year")
	features := make([]string, len(content.PremiumFeatures))
	for i, f := range content.PremiumFeatures {
		features[i] = lipgloss.NewStyle().Foreground(colorGood).Render("✓ ") + f
	}
	lines := []string{
		headingStyle.Render("Unlock Full Potential"),
		"Upgrade to Premium to continue grading essays and access advanced features.",
		"",
		price,
		"",
		strings.Join(features, "\n"),
		"",
	}
	if !st.CanGrade() {
		lines = append(lines, errorStyle.Render("Your free essays are used up."), "")
	}
	lines = append(lines,
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorBrand).Padding(0, 2).Render("Subscribe Now"),
		mutedStyle.Render("Recurring billing. Cancel anytime."))
	return boxStyle.Width(min(width-2, 64)).Render(strings.Join(lines, "\n"))
}
