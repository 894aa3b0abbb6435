package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kingrea/grademaster/internal/grading"
	"github.com/kingrea/grademaster/internal/session"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".heic", ".heif", ".bmp", ".tif", ".tiff"}

// uploadView collects an image path, either typed or picked from disk, and
// shows the spinner while the grader runs.
type uploadView struct {
	input   textinput.Model
	picker  filepicker.Model
	spinner spinner.Model
	picking bool
	dir     string
	height  int
}

func newUploadView(dir string) uploadView {
	input := textinput.New()
	input.Placeholder = "path/to/essay.jpg"
	input.Prompt = "Image › "
	input.CharLimit = 4096
	input.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorBrand)

	return uploadView{input: input, picker: newPicker(dir, 12), spinner: sp, dir: dir, height: 12}
}

func newPicker(dir string, height int) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = imageExtensions
	fp.CurrentDirectory = dir
	fp.Height = height
	return fp
}

func (u *uploadView) resize(width, height int) {
	u.input.Width = max(20, width-20)
	u.height = max(5, height-18)
	u.picker.Height = u.height
}

func (u *uploadView) focus() tea.Cmd {
	return u.input.Focus()
}

func (u *uploadView) openPicker() tea.Cmd {
	u.picking = true
	u.input.Blur()
	u.picker = newPicker(u.dir, u.height)
	return u.picker.Init()
}

func (u *uploadView) closePicker() {
	if !u.picking {
		return
	}
	u.picking = false
	if dir := u.picker.CurrentDirectory; dir != "" {
		u.dir = dir
	}
	u.input.Focus()
}

// update forwards non-key messages: directory reads for the picker and cursor
// blinks for the input.
func (u *uploadView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if u.picking {
		u.picker, cmd = u.picker.Update(msg)
		return cmd
	}
	u.input, cmd = u.input.Update(msg)
	return cmd
}

func (a *App) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.upload.picking {
		var cmd tea.Cmd
		a.upload.picker, cmd = a.upload.picker.Update(msg)
		if ok, path := a.upload.picker.DidSelectFile(msg); ok {
			a.upload.closePicker()
			return a, a.submit(path)
		}
		if ok, path := a.upload.picker.DidSelectDisabledFile(msg); ok {
			a.statusMsg = fmt.Sprintf("%s is not an image", path)
			return a, cmd
		}
		return a, cmd
	}
	switch msg.String() {
	case "tab", "ctrl+o":
		if err := a.ctrl.RequestUpload(a.ctx); err != nil {
			a.logger.Debug("upload refused", zap.Error(err))
			return a, nil
		}
		a.statusMsg = ""
		return a, a.upload.openPicker()
	case "enter":
		return a, a.submit(a.upload.input.Value())
	}
	var cmd tea.Cmd
	a.upload.input, cmd = a.upload.input.Update(msg)
	return a, cmd
}

// submit hands a chosen path to the controller. Errors are already reflected
// in controller state (screen switch or error text), so they only get logged.
func (a *App) submit(path string) tea.Cmd {
	job, err := a.ctrl.Begin(a.ctx, path)
	if err != nil {
		if !errors.Is(err, grading.ErrNoFile) && !errors.Is(err, session.ErrBusy) {
			a.logger.Debug("upload not started", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	a.statusMsg = ""
	a.upload.input.Reset()
	a.upload.input.Blur()
	return tea.Batch(a.upload.spinner.Tick, a.gradeCmd(job))
}

func (u uploadView) view(st session.State, width int) string {
	if st.Processing {
		lines := []string{
			fmt.Sprintf("%s %s", u.spinner.View(), headingStyle.Render("Analyzing Handwriting...")),
			"",
			mutedStyle.Render("Identifying structure, grammar, and vocabulary."),
		}
		return boxStyle.Width(min(width-2, 60)).Render(strings.Join(lines, "\n"))
	}

	var lines []string
	if st.Error != "" {
		lines = append(lines, errorStyle.Render(st.Error), "")
	}
	if u.picking {
		lines = append(lines,
			headingStyle.Render("Choose an essay photo"),
			mutedStyle.Render(u.picker.CurrentDirectory),
			"",
			u.picker.View(),
		)
		return strings.Join(lines, "\n")
	}
	intro := boxStyle.Width(min(width-2, 72)).Render(strings.Join([]string{
		headingStyle.Render("Upload Essay"),
		"Take a clear photo of the handwritten essay and enter its path, or press tab to browse.",
		mutedStyle.Render("Supports IELTS Task 1 & 2"),
	}, "\n"))
	lines = append(lines, intro, "", u.input.View())
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("%d essay(s) remaining", st.Subscription.EssaysRemaining)))
	return strings.Join(lines, "\n")
}
