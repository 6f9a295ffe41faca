package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/ui/theme"
)

// PredictionPicker drives the output prediction game shown after a
// passing run. The game state itself lives in the session tree; the
// picker only owns the cursor.
type PredictionPicker struct {
	Selected int
}

// Init returns nil.
func (p PredictionPicker) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and selection. The chosen choice is
// returned when the learner submits; empty string otherwise.
func (p PredictionPicker) Update(msg tea.Msg, pred state.Prediction) (PredictionPicker, string) {
	if pred.State != state.PredictionWaiting {
		return p, ""
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, ""
	}

	switch kmsg.String() {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(pred.Choices)-1 {
			p.Selected++
		}
	case "enter":
		if p.Selected >= 0 && p.Selected < len(pred.Choices) {
			return p, pred.Choices[p.Selected]
		}
	}

	return p, ""
}

// View renders the choice list for the given game state.
func (p PredictionPicker) View(pred state.Prediction) string {
	if pred.State == state.PredictionHidden || len(pred.Choices) == 0 {
		return ""
	}

	header := "What will the output be?"
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(header) + "\n\n"

	over := pred.State == state.PredictionCorrect || pred.State == state.PredictionWrong

	for i, choice := range pred.Choices {
		prefix := "  "
		if i == p.Selected && !over {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s", prefix, choice)

		switch {
		case over && choice == pred.Answer:
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
		case wasWrongGuess(pred, choice):
			s += lipgloss.NewStyle().Foreground(theme.Error).Render(line) + "\n"
		case i == p.Selected && !over:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	switch pred.State {
	case state.PredictionCorrect:
		s += "\n" + theme.Correct.Render("Correct!")
	case state.PredictionWrong:
		s += "\n" + theme.Incorrect.Render(fmt.Sprintf("The answer was: %s", pred.Answer))
	}

	return s
}

func wasWrongGuess(pred state.Prediction, choice string) bool {
	for _, w := range pred.WrongAnswers {
		if w == choice {
			return true
		}
	}
	return false
}
