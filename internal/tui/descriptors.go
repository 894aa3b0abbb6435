package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/grademaster/internal/content"
)

// descriptorsView is the band descriptor browser. Rows expand independently;
// switching task collapses everything.
type descriptorsView struct {
	task     content.Task
	cursor   int
	expanded map[int]bool
}

func newDescriptorsView() descriptorsView {
	return descriptorsView{task: content.Task1, expanded: map[int]bool{}}
}

func (d *descriptorsView) setTask(task content.Task) {
	if task == d.task {
		return
	}
	d.task = task
	d.cursor = 0
	d.collapseAll()
}

func (d *descriptorsView) collapseAll() {
	d.expanded = map[int]bool{}
}

func (d *descriptorsView) toggle(band int) {
	d.expanded[band] = !d.expanded[band]
}

func (d *descriptorsView) handleKey(msg tea.KeyMsg) {
	rows := content.Descriptors(d.task)
	switch msg.String() {
	case "tab", "shift+tab":
		d.setTask(d.task.Other())
	case "1":
		d.setTask(content.Task1)
	case "2":
		d.setTask(content.Task2)
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(rows)-1 {
			d.cursor++
		}
	case "enter", " ":
		if d.cursor < len(rows) {
			d.toggle(rows[d.cursor].Band)
		}
	}
}

func (d descriptorsView) view(width int) string {
	tabs := []string{d.renderTab(content.Task1), d.renderTab(content.Task2)}
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		hintStyle.Width(width).Render(content.DescriptorsNote),
		"",
	}
	for i, row := range content.Descriptors(d.task) {
		open := d.expanded[row.Band]
		marker := "▸"
		if open {
			marker = "▾"
		}
		title := fmt.Sprintf("%s Band %d", marker, row.Band)
		if i == d.cursor {
			title = selectedStyle.Render(title)
		}
		lines = append(lines, title)
		if !open {
			continue
		}
		for _, field := range row.Fields(d.task) {
			body := lipgloss.NewStyle().PaddingLeft(4).Width(width).Render(field.Text)
			lines = append(lines, lipgloss.NewStyle().PaddingLeft(2).Bold(true).Render(field.Label), body)
		}
		lines = append(lines, "")
	}
	lines = append(lines, "", mutedStyle.Render(content.DescriptorsFooter))
	return strings.Join(lines, "\n")
}

func (d descriptorsView) renderTab(task content.Task) string {
	style := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder(), false, false, true, false)
	if task == d.task {
		return style.Bold(true).Foreground(colorBrand).BorderForeground(colorBrand).Render(task.Title())
	}
	return style.Foreground(colorMuted).BorderForeground(colorBorder).Render(task.Title())
}
