package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/grademaster/internal/content"
)

func renderAppInfo(width int) string {
	listing := content.AppStore
	wrap := lipgloss.NewStyle().Width(width)
	lines := []string{
		headingStyle.Render("App Store Listing"),
		mutedStyle.Render("Title"),
		listing.Title,
		mutedStyle.Render("Subtitle"),
		listing.Subtitle,
		mutedStyle.Render("Description"),
		wrap.Render(listing.Description),
		mutedStyle.Render("Keywords"),
		wrap.Render(listing.Keywords),
		"",
		headingStyle.Render("Review Checklist"),
	}
	for _, item := range content.ReviewChecklist {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorGood).Render("✓ ")+item)
	}
	lines = append(lines, "", headingStyle.Render("User Flow"))
	for i, step := range content.UserFlow {
		lines = append(lines, wrap.Render(fmt.Sprintf("%d. %s", i+1, step)))
	}
	return strings.Join(lines, "\n")
}
