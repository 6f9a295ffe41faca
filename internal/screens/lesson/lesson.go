// Package lesson is the exercise screen: step text and hints on top,
// the code editor below, the console and the prediction game after a
// run. All lesson state lives in the engine's tree; this screen owns
// only cursors, focus and viewport positions.
package lesson

import (
	"context"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepcoder/internal/engine"
	"github.com/abhisek/stepcoder/internal/screen"
	"github.com/abhisek/stepcoder/internal/scroll"
	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/ui/components"
	"github.com/abhisek/stepcoder/internal/ui/layout"
)

// LessonScreen drives one page of the course.
type LessonScreen struct {
	eng     *engine.Engine
	editor  components.Editor
	picker  components.PredictionPicker
	console viewport.Model

	width  int
	height int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.StatusProvider = (*LessonScreen)(nil)

// New creates the lesson screen over the engine's current page.
func New(eng *engine.Engine) *LessonScreen {
	return &LessonScreen{
		eng:     eng,
		editor:  components.NewEditor(eng.State().EditorContent),
		console: viewport.New(),
	}
}

func (l *LessonScreen) Init() tea.Cmd {
	return l.editor.Init()
}

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
		l.resize()
		return l, nil

	case scroll.ToMsg:
		// The screen always shows the current step; arriving here just
		// means the tree moved, so sync the dependent widgets.
		l.syncConsole()
		return l, nil

	case scroll.BottomMsg:
		if msg.Opts.Container == engine.ContainerConsole {
			l.syncConsole()
			l.console.GotoBottom()
		}
		return l, nil

	case tea.KeyMsg:
		return l.handleKey(msg)
	}

	var cmd tea.Cmd
	l.editor, cmd = l.editor.Update(msg)
	return l, cmd
}

func (l *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s := l.eng.State()

	switch msg.String() {
	case "ctrl+r":
		if s.Processing {
			return l, nil
		}
		eng := l.eng
		return l, func() tea.Msg {
			eng.RunCode(context.Background(), "editor")
			return nil
		}
	case "ctrl+n":
		l.eng.MoveStep(1)
		return l, nil
	case "ctrl+p":
		l.eng.MoveStep(-1)
		return l, nil
	case "ctrl+f":
		l.eng.MovePage(1)
		return l, nil
	case "ctrl+b":
		l.eng.MovePage(-1)
		return l, nil
	case "ctrl+h":
		l.eng.ShowHint()
		return l, nil
	case "ctrl+s":
		eng := l.eng
		return l, func() tea.Msg {
			eng.RequestSolution(context.Background())
			return nil
		}
	case "ctrl+x":
		l.eng.RevealSolutionToken()
		return l, nil
	case "ctrl+w":
		if n := len(s.Messages); n > 0 {
			l.eng.CloseMessage(s.Messages[n-1])
		}
		return l, nil
	}

	// The prediction game takes the cursor keys while it is on.
	if s.Prediction.State == state.PredictionWaiting {
		var choice string
		l.picker, choice = l.picker.Update(msg, s.Prediction)
		if choice != "" {
			l.eng.AnswerPrediction(choice)
		}
		return l, nil
	}

	var cmd tea.Cmd
	l.editor, cmd = l.editor.Update(msg)
	l.eng.SetEditorContent(l.editor.Value())
	return l, cmd
}

func (l *LessonScreen) resize() {
	w := l.width - 4
	if w < 10 {
		w = 10
	}
	l.editor.SetSize(w, editorHeight)
	l.console.SetWidth(w)
	l.console.SetHeight(consoleHeight)
}

// syncConsole refreshes the console viewport from the last passing run.
func (l *LessonScreen) syncConsole() {
	if res := l.eng.State().Prediction.CodeResult; res != nil {
		l.console.SetContent(res.Output)
	}
}

func (l *LessonScreen) Title() string {
	return l.eng.State().CurrentPage().Title
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	if l.eng.State().Prediction.State == state.PredictionWaiting {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Predict the output"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+R", Description: "Run"},
		{Key: "Ctrl+N/P", Description: "Step"},
		{Key: "Ctrl+H", Description: "Hint"},
		{Key: "Ctrl+S", Description: "Solution"},
		{Key: "Esc", Description: "Contents"},
	}
}
