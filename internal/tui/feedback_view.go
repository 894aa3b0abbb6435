package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/grademaster/internal/feedback"
	"github.com/kingrea/grademaster/internal/grading"
)

// feedbackView scrolls through the score header, the examiner summary and
// the feedback cards.
type feedbackView struct {
	viewport viewport.Model
	result   *grading.Result
	notice   string
	width    int
}

func newFeedbackView() feedbackView {
	return feedbackView{viewport: viewport.New(96, 20), width: 96}
}

func (f *feedbackView) resize(width, height int) {
	f.width = max(40, width-6)
	f.viewport.Width = f.width
	f.viewport.Height = max(6, height)
	if f.result != nil {
		f.viewport.SetContent(renderResult(f.result, f.width))
	}
}

func (f *feedbackView) load(res *grading.Result) {
	f.result = res
	f.notice = ""
	f.viewport.SetContent(renderResult(res, f.width))
	f.viewport.GotoTop()
}

func (a *App) updateFeedback(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "p":
		a.feedback.notice = feedback.ExportNotice(feedback.ExportPDF)
		a.journal.Info("Export requested · PDF")
		return nil
	case "w":
		a.feedback.notice = feedback.ExportNotice(feedback.ExportWord)
		a.journal.Info("Export requested · DOCX")
		return nil
	}
	var cmd tea.Cmd
	a.feedback.viewport, cmd = a.feedback.viewport.Update(msg)
	return cmd
}

func (f feedbackView) view() string {
	if f.result == nil {
		return mutedStyle.Render("No result yet.")
	}
	out := f.viewport.View()
	if f.notice != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, "", lipgloss.NewStyle().Foreground(colorGold).Render(f.notice))
	}
	return out
}

func renderResult(res *grading.Result, width int) string {
	if res == nil {
		return ""
	}
	sections := []string{
		renderScores(res),
		headingStyle.Render("Examiner Summary"),
		renderMarkdown(res.Summary, width),
		headingStyle.Render(fmt.Sprintf("Feedback Points (%d)", len(res.DetailedFeedback))),
	}
	for _, item := range res.DetailedFeedback {
		sections = append(sections, renderFeedbackCard(item, width))
	}
	if essay := strings.TrimSpace(res.EssayText); essay != "" {
		sections = append(sections,
			headingStyle.Render("Transcribed Essay"),
			lipgloss.NewStyle().Width(width).Foreground(colorSubtle).Render(essay))
	}
	return strings.Join(sections, "\n\n")
}

func renderScores(res *grading.Result) string {
	overall := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBrand).
		Padding(0, 2).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%s\n%s", mutedStyle.Render("Overall Band"),
			lipgloss.NewStyle().Bold(true).Foreground(colorBrand).Render(feedback.FormatBand(res.OverallBand))))
	cells := []string{overall}
	for _, s := range feedback.Scores(res.Criteria) {
		cells = append(cells, boxStyle.Align(lipgloss.Center).Render(
			fmt.Sprintf("%s\n%s", mutedStyle.Render(s.Label), lipgloss.NewStyle().Bold(true).Render(feedback.FormatBand(s.Value)))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderFeedbackCard(item grading.FeedbackItem, width int) string {
	style := feedback.StyleFor(item.Severity)
	accent := lipgloss.Color(style.Accent)
	head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(style.Text)).
		Render(fmt.Sprintf("%s %s", style.Icon, feedback.Header(item)))
	lines := []string{head}
	if text := strings.TrimSpace(item.OriginalText); text != "" {
		lines = append(lines, lipgloss.NewStyle().Italic(true).Foreground(colorMuted).Render(fmt.Sprintf("%q", text)))
	}
	lines = append(lines, strings.TrimSpace(item.Explanation))
	if s := strings.TrimSpace(item.Suggestion); s != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorGood).Render("Suggestion: "+s))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accent).
		PaddingLeft(1).
		Width(max(20, width-2)).
		Render(strings.Join(lines, "\n"))
}

// renderMarkdown renders text with glamour, falling back to plain wrapping
// when the renderer cannot be built.
func renderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err == nil {
		if out, err := renderer.Render(md); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return lipgloss.NewStyle().Width(width).Render(md)
}
