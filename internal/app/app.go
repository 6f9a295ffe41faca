// Package app is the Bubble Tea shell: it owns the program, the screen
// stack and the bridge between engine side effects and the UI loop.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepcoder/internal/engine"
	"github.com/abhisek/stepcoder/internal/router"
	"github.com/abhisek/stepcoder/internal/screen"
	"github.com/abhisek/stepcoder/internal/screens/feedback"
	"github.com/abhisek/stepcoder/internal/screens/home"
	"github.com/abhisek/stepcoder/internal/screens/lesson"
	"github.com/abhisek/stepcoder/internal/scroll"
	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/ui/layout"
	"github.com/abhisek/stepcoder/internal/ui/theme"
)

// treeChangedMsg wakes the loop after a state transition.
type treeChangedMsg struct{}

// loginMsg ends the session and carries the path to resume at after
// signing in.
type loginMsg struct{ next string }

// Redirector implements engine.Redirector by ending the TUI with a
// pointer to the login flow.
type Redirector struct {
	driver *scroll.Driver
}

// NewRedirector creates a Redirector delivering through the driver.
func NewRedirector(d *scroll.Driver) *Redirector {
	return &Redirector{driver: d}
}

func (r *Redirector) RedirectToLogin(next string) {
	r.driver.Post(loginMsg{next: next})
}

// Options wires the app's collaborators.
type Options struct {
	Engine   *engine.Engine
	Driver   *scroll.Driver
	Feedback feedback.Submit
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	eng    *engine.Engine
	opts   Options
	router *router.Router
	width  int
	height int
	loaded bool

	// loginNext, when set, is printed after the program exits.
	loginNext string
}

func newAppModel(opts Options) AppModel {
	return AppModel{
		eng:    opts.Engine,
		opts:   opts,
		router: router.New(&loadingScreen{}),
	}
}

func (m AppModel) newHome() screen.Screen {
	eng := m.eng
	return home.New(eng, func() screen.Screen { return lesson.New(eng) })
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Screens size their own widgets.
		cmd := m.router.Update(msg)
		return m, cmd

	case treeChangedMsg:
		if !m.loaded && m.eng.State().Loaded() {
			m.loaded = true
			return m, m.router.Replace(m.newHome())
		}
		return m, nil

	case loginMsg:
		m.loginNext = msg.next
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "ctrl+g":
			if m.opts.Feedback != nil {
				fs := feedback.New(m.opts.Feedback)
				return m, func() tea.Msg { return router.PushScreenMsg{Screen: fs} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the loads and the Bubble Tea program and blocks until the
// session ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	opts.Driver.Attach(p.Send)
	opts.Engine.Store().Subscribe(func(*state.State) {
		p.Send(treeChangedMsg{})
	})
	opts.Engine.Start(ctx)
	defer opts.Engine.Close()

	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}

	if m, ok := final.(AppModel); ok && m.loginNext != "" {
		fmt.Fprintf(os.Stderr, "Please sign in, then come back: %s\n", m.loginNext)
	}
	return nil
}

// loadingScreen is shown until both remote loads have landed.
type loadingScreen struct{}

func (l *loadingScreen) Init() tea.Cmd { return nil }

func (l *loadingScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return l, nil }

func (l *loadingScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Loading your course...")
}

func (l *loadingScreen) Title() string { return "Loading" }
