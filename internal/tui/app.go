// internal/tui/app.go
//
// The terminal front end for GradeMaster. It follows bubbletea's Elm
// architecture: key presses become messages, Update hands them to the
// session controller or the active screen, and View renders whatever the
// controller says is showing.

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kingrea/grademaster/internal/journal"
	"github.com/kingrea/grademaster/internal/logging"
	"github.com/kingrea/grademaster/internal/session"
)

const logPanelEntries = 6

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithJournal shows the activity journal in the log panel.
func WithJournal(j *journal.Journal) AppOption {
	return func(a *App) {
		a.journal = j
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithContext sets the parent context for grading calls.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithStartDir sets the directory the file picker opens in.
func WithStartDir(dir string) AppOption {
	return func(a *App) {
		if strings.TrimSpace(dir) != "" {
			a.startDir = dir
		}
	}
}

// gradeFinishedMsg carries a grading outcome back to the event loop.
type gradeFinishedMsg struct {
	outcome session.Outcome
}

// App is the root model. Screen state lives in the controller; App only
// keeps per-screen widget state.
type App struct {
	ctrl    *session.Controller
	journal *journal.Journal
	logger  *zap.Logger
	ctx     context.Context

	startDir    string
	home        list.Model
	descriptors descriptorsView
	upload      uploadView
	feedback    feedbackView

	statusMsg string

	width  int
	height int
}

// NewApp creates the root model around a session controller.
func NewApp(ctrl *session.Controller, opts ...AppOption) (*App, error) {
	if ctrl == nil {
		return nil, errors.New("tui: session controller is required")
	}
	app := &App{
		ctrl:        ctrl,
		logger:      logging.OrNop(nil),
		ctx:         context.Background(),
		descriptors: newDescriptorsView(),
		feedback:    newFeedbackView(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			app.startDir = wd
		}
	}
	app.upload = newUploadView(app.startDir)
	app.home = newHomeMenu(ctrl.State().Subscription)
	app.journal.Info("Session opened · %s", planLine(ctrl.State().Subscription))
	return app, nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.home.SetSize(max(20, msg.Width-6), max(8, msg.Height-16))
		a.upload.resize(msg.Width, msg.Height)
		a.feedback.resize(msg.Width, msg.Height-logPanelEntries-8)
		return a, nil

	case gradeFinishedMsg:
		return a, a.finishGrading(msg.outcome)

	case spinner.TickMsg:
		if !a.ctrl.State().Processing {
			return a, nil
		}
		var cmd tea.Cmd
		a.upload.spinner, cmd = a.upload.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		st := a.ctrl.State()
		if st.Processing {
			return a, nil
		}
		switch key {
		case "q":
			if st.Screen == session.ScreenHome {
				return a, tea.Quit
			}
		case "esc":
			if st.Screen == session.ScreenGradeUpload && a.upload.picking {
				a.upload.closePicker()
				return a, nil
			}
			if st.Screen != session.ScreenHome {
				return a.returnHome()
			}
		}
		switch st.Screen {
		case session.ScreenHome:
			return a.updateHome(msg)
		case session.ScreenDescriptors:
			a.descriptors.handleKey(msg)
			return a, nil
		case session.ScreenGradeUpload:
			return a.updateUpload(msg)
		case session.ScreenFeedback:
			return a, a.updateFeedback(msg)
		case session.ScreenSubscription:
			return a.updateSubscription(msg)
		}
		return a, nil
	}

	// Directory listings and cursor blinks belong to the upload screen.
	if a.ctrl.Screen() == session.ScreenGradeUpload {
		return a, a.upload.update(msg)
	}
	return a, nil
}

func (a *App) navigate(to session.Screen) (tea.Model, tea.Cmd) {
	if err := a.ctrl.Navigate(to); err != nil {
		a.logger.Debug("navigation refused", zap.Stringer("to", to), zap.Error(err))
		return a, nil
	}
	a.statusMsg = ""
	switch to {
	case session.ScreenGradeUpload:
		return a, a.upload.focus()
	case session.ScreenFeedback:
		a.feedback.load(a.ctrl.State().Result)
	}
	return a, nil
}

func (a *App) returnHome() (tea.Model, tea.Cmd) {
	a.upload.closePicker()
	a.descriptors.collapseAll()
	a.feedback.notice = ""
	model, cmd := a.navigate(session.ScreenHome)
	a.ctrl.RefreshSubscription(a.ctx)
	a.refreshHome()
	return model, cmd
}

func (a *App) refreshHome() {
	idx := a.home.Index()
	a.home.SetItems(homeItems(a.ctrl.State().Subscription))
	a.home.Select(idx)
}

func (a *App) gradeCmd(job *session.Job) tea.Cmd {
	ctx := a.ctx
	ctrl := a.ctrl
	return func() tea.Msg {
		return gradeFinishedMsg{outcome: ctrl.Run(ctx, job)}
	}
}

func (a *App) finishGrading(out session.Outcome) tea.Cmd {
	if err := a.ctrl.Complete(a.ctx, out); err != nil {
		a.statusMsg = fmt.Sprintf("Could not save essay count: %v", err)
	}
	if a.ctrl.Screen() == session.ScreenFeedback {
		a.feedback.load(a.ctrl.State().Result)
		return nil
	}
	return a.upload.focus()
}

// View renders the current state to a string.
func (a *App) View() string {
	st := a.ctrl.State()
	var content string
	switch st.Screen {
	case session.ScreenHome:
		content = a.renderHome(st)
	case session.ScreenDescriptors:
		content = a.descriptors.view(a.contentWidth())
	case session.ScreenGradeUpload:
		content = a.upload.view(st, a.contentWidth())
	case session.ScreenFeedback:
		content = a.feedback.view()
	case session.ScreenSubscription:
		content = renderSubscription(st.Subscription, a.contentWidth())
	case session.ScreenAppInfo:
		content = renderAppInfo(a.contentWidth())
	}
	parts := []string{a.renderHeader(st), content}
	if a.statusMsg != "" {
		parts = append(parts, "", errorStyle.Render(a.statusMsg))
	}
	if panel := a.renderLogPanel(); panel != "" {
		parts = append(parts, "", panel)
	}
	parts = append(parts, "", hintStyle.Render(a.footerHint(st)))
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (a *App) contentWidth() int {
	if a.width <= 0 {
		return 96
	}
	return max(40, a.width-6)
}

func (a *App) renderHeader(st session.State) string {
	brand := titleStyle.Render("IELTS GradeMaster")
	if st.Screen == session.ScreenHome {
		return lipgloss.NewStyle().MarginBottom(1).Render(brand)
	}
	title := headingStyle.Render(st.Screen.String())
	return lipgloss.NewStyle().MarginBottom(1).Render(fmt.Sprintf("%s  ·  %s", brand, title))
}

func (a *App) renderLogPanel() string {
	if a.journal == nil {
		return ""
	}
	entries, _ := a.journal.Tail(logPanelEntries)
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Short()
	}
	fileName := filepath.Base(a.journal.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(colorSubtle).
		Render(strings.Join(lines, "\n"))
	return boxStyle.Width(a.contentWidth() - 2).Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) footerHint(st session.State) string {
	if st.Processing {
		return "Grading in progress · ctrl+c quit"
	}
	switch st.Screen {
	case session.ScreenHome:
		return "↑/↓ move · enter open · q quit"
	case session.ScreenDescriptors:
		return "tab / 1 / 2 switch task · ↑/↓ move · enter expand · esc back"
	case session.ScreenGradeUpload:
		if a.upload.picking {
			return "↑/↓ move · enter select · esc close picker"
		}
		return "enter grade path · tab browse files · esc back"
	case session.ScreenFeedback:
		return "↑/↓ scroll · p PDF · w Word · esc back"
	case session.ScreenSubscription:
		return "enter subscribe · esc back"
	default:
		return "esc back"
	}
}
