package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/grademaster/internal/session"
	"github.com/kingrea/grademaster/internal/subscription"
)

// menuItem implements list.Item for the home menu.
type menuItem struct {
	title  string
	desc   string
	screen session.Screen
	quit   bool
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

func homeItems(st subscription.Status) []list.Item {
	premium := menuItem{
		title:  "Go Premium",
		desc:   fmt.Sprintf("$%d/year · up to %d essays", subscription.PriceUSD, subscription.YearlyLimit),
		screen: session.ScreenSubscription,
	}
	if st.IsPremium {
		premium.title = "Premium Plan"
		premium.desc = "Renew your yearly allowance"
	}
	return []list.Item{
		menuItem{title: "Grade Writing", desc: "Upload a photo of a handwritten essay", screen: session.ScreenGradeUpload},
		menuItem{title: "Band Descriptors", desc: "Official Task 1 & Task 2 criteria", screen: session.ScreenDescriptors},
		premium,
		menuItem{title: "App Setup Info", desc: "Store listing and review checklist", screen: session.ScreenAppInfo},
		menuItem{title: "Exit", desc: "Quit GradeMaster", quit: true},
	}
}

func newHomeMenu(st subscription.Status) list.Model {
	menu := list.New(homeItems(st), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Teacher Dashboard"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	return menu
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := a.home.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		if item.quit {
			return a, tea.Quit
		}
		return a.navigate(item.screen)
	}
	var cmd tea.Cmd
	a.home, cmd = a.home.Update(msg)
	return a, cmd
}

func planLine(st subscription.Status) string {
	plan := "Free Trial"
	if st.IsPremium {
		plan = "Premium Plan"
	}
	return fmt.Sprintf("%s · %d essay(s) remaining", plan, st.EssaysRemaining)
}

func (a *App) renderHome(st session.State) string {
	sub := st.Subscription
	plan := lipgloss.NewStyle().Bold(true).Foreground(colorGold).Render("Free Trial")
	if sub.IsPremium {
		plan = lipgloss.NewStyle().Bold(true).Foreground(colorGood).Render("Premium Plan")
	}
	lines := []string{
		mutedStyle.Render("Current plan"),
		plan,
		fmt.Sprintf("%d essays remaining · %d used", sub.EssaysRemaining, sub.EssaysUsed),
		usageBar(sub, 30),
	}
	if sub.IsPremium && sub.ExpiresAt != nil {
		lines = append(lines, mutedStyle.Render("Renews "+sub.ExpiresAt.Local().Format("2 Jan 2006")))
	}
	if !sub.CanGrade() {
		lines = append(lines, errorStyle.Render("No essays left. Subscribe to keep grading."))
	}
	card := boxStyle.Width(min(a.contentWidth()-2, 48)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.JoinVertical(lipgloss.Left, card, "", a.home.View())
}

// usageBar draws used/total as a fixed-width bar.
func usageBar(st subscription.Status, width int) string {
	total := st.Total()
	filled := 0
	if total > 0 {
		filled = st.EssaysUsed * width / total
	}
	if filled > width {
		filled = width
	}
	bar := lipgloss.NewStyle().Foreground(colorBrand).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar
}
