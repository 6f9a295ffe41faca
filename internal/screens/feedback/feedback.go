// Package feedback is a small form that sends a bug report or comment
// to the course server, attaching the current session tree.
package feedback

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepcoder/internal/router"
	"github.com/abhisek/stepcoder/internal/screen"
	"github.com/abhisek/stepcoder/internal/ui/components"
	"github.com/abhisek/stepcoder/internal/ui/layout"
	"github.com/abhisek/stepcoder/internal/ui/theme"
)

// Submit delivers the report. It runs off the UI goroutine.
type Submit func(title, description string) error

type submittedMsg struct{ err error }

// FeedbackScreen is the report form.
type FeedbackScreen struct {
	submit Submit

	title   textinput.Model
	body    components.Editor
	onBody  bool
	sending bool
	done    bool
	errMsg  string
}

var _ screen.Screen = (*FeedbackScreen)(nil)
var _ screen.KeyHintProvider = (*FeedbackScreen)(nil)

// New creates the form.
func New(submit Submit) *FeedbackScreen {
	ti := textinput.New()
	ti.Placeholder = "What happened?"
	ti.Focus()

	body := components.NewEditor("")
	body.Blur()
	body.SetSize(60, 6)

	return &FeedbackScreen{submit: submit, title: ti, body: body}
}

func (f *FeedbackScreen) Init() tea.Cmd {
	return f.title.Focus()
}

func (f *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		f.sending = false
		if msg.err != nil {
			f.errMsg = "Could not send your report. Please try again."
			return f, nil
		}
		f.done = true
		return f, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyMsg:
		if f.sending {
			return f, nil
		}
		switch msg.String() {
		case "tab":
			f.onBody = !f.onBody
			if f.onBody {
				f.title.Blur()
				return f, f.body.Focus()
			}
			f.body.Blur()
			return f, f.title.Focus()
		case "ctrl+d":
			title, body := f.title.Value(), f.body.Value()
			if title == "" {
				f.errMsg = "A title is required."
				return f, nil
			}
			f.sending = true
			f.errMsg = ""
			submit := f.submit
			return f, func() tea.Msg {
				return submittedMsg{err: submit(title, body)}
			}
		}
	}

	var cmd tea.Cmd
	if f.onBody {
		f.body, cmd = f.body.Update(msg)
	} else {
		f.title, cmd = f.title.Update(msg)
	}
	return f, cmd
}

func (f *FeedbackScreen) View(width, height int) string {
	var b []string
	b = append(b, theme.Title.Width(width).Render("Send feedback"))
	b = append(b, "")
	b = append(b, theme.Body.Render("Title"))
	b = append(b, f.title.View())
	b = append(b, "")
	b = append(b, theme.Body.Render("Details"))
	b = append(b, f.body.View())

	switch {
	case f.sending:
		b = append(b, "", theme.Hint.Render("Sending..."))
	case f.errMsg != "":
		b = append(b, "", theme.Incorrect.Render(f.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2).Render(content)
}

func (f *FeedbackScreen) Title() string {
	return "Feedback"
}

func (f *FeedbackScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Ctrl+D", Description: "Send"},
		{Key: "Esc", Description: "Back"},
	}
}
