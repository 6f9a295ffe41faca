package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/ui/components"
	"github.com/abhisek/stepcoder/internal/ui/theme"
)

const (
	editorHeight  = 8
	consoleHeight = 6
)

func (l *LessonScreen) View(width, height int) string {
	s := l.eng.State()
	page := s.CurrentPage()
	step := s.CurrentStep()

	var b strings.Builder

	bar := components.StepProgress(step.Index, len(page.Steps), width/2)
	b.WriteString(bar.View() + "\n\n")

	text := lipgloss.NewStyle().Width(width - 2).Foreground(theme.Text).Render(step.Text)
	b.WriteString(text + "\n")

	for i := 0; i < s.NumHints && i < len(step.Hints); i++ {
		b.WriteString(theme.Hint.Render("hint: "+step.Hints[i]) + "\n")
	}

	if sol := step.Solution; sol != nil {
		b.WriteString("\n" + renderSolution(sol, width-2) + "\n")
	} else if s.RequestingSolution > 0 {
		b.WriteString("\n" + theme.Hint.Render("Fetching the solution...") + "\n")
	}

	for _, msg := range s.Messages {
		b.WriteString("\n" + theme.MessageBox.Width(width-4).Render(msg))
	}

	b.WriteString("\n" + l.editor.View() + "\n")

	if res := s.Prediction.CodeResult; res != nil {
		b.WriteString("\n" + theme.Code.Render("── output ──") + "\n")
		b.WriteString(l.console.View() + "\n")
	}

	if pv := l.picker.View(s.Prediction); pv != "" {
		b.WriteString("\n" + pv + "\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

// renderSolution shows the solution program with still-masked tokens
// blanked out.
func renderSolution(sol *state.Solution, width int) string {
	parts := make([]string, len(sol.Lines))
	for i, line := range sol.Lines {
		if i < len(sol.Mask) && sol.Mask[i] {
			// Display width, not byte length, so multibyte tokens keep
			// the program's shape while hidden.
			parts[i] = strings.Repeat("▓", max(1, lipgloss.Width(line)))
			continue
		}
		parts[i] = line
	}
	body := lipgloss.NewStyle().Width(width).Render(theme.Code.Render(strings.Join(parts, "")))
	label := theme.Hint.Render("solution (ctrl+x reveals the next piece)")
	return label + "\n" + body
}

// Status puts the step position and run state in the header.
func (l *LessonScreen) Status() string {
	s := l.eng.State()
	page := s.CurrentPage()
	step := s.CurrentStep()
	pos := fmt.Sprintf("%d/%d", step.Index+1, len(page.Steps))
	if s.Processing {
		return pos + " · running"
	}
	return pos
}
