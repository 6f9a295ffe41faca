package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// Editor wraps bubbles/textarea as the code entry area of the lesson
// screen.
type Editor struct {
	Model textarea.Model
}

// NewEditor creates a code editor with the given initial content.
func NewEditor(content string) Editor {
	ta := textarea.New()
	ta.Placeholder = "Write your code here..."
	ta.SetValue(content)
	ta.Focus()
	return Editor{Model: ta}
}

// Init returns the initial command.
func (e Editor) Init() tea.Cmd {
	return e.Model.Focus()
}

// Update handles messages.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd
}

// View renders the editor.
func (e Editor) View() string {
	return e.Model.View()
}

// Value returns the current buffer.
func (e Editor) Value() string {
	return e.Model.Value()
}

// SetSize resizes the editor.
func (e *Editor) SetSize(width, height int) {
	e.Model.SetWidth(width)
	e.Model.SetHeight(height)
}

// Focused reports whether the editor has keyboard focus.
func (e Editor) Focused() bool {
	return e.Model.Focused()
}

// Focus gives the editor keyboard focus.
func (e *Editor) Focus() tea.Cmd {
	return e.Model.Focus()
}

// Blur removes keyboard focus.
func (e *Editor) Blur() {
	e.Model.Blur()
}
