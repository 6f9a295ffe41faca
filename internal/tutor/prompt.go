package tutor

import (
	"fmt"
	"strings"
)

const hintSystemPrompt = `You are a patient programming tutor for beginners working through an interactive Python course. A student has failed the same exercise several times in a row and needs a nudge in the right direction. Never write the solution for them.`

func buildHintPrompt(input HintInput) string {
	var b strings.Builder

	b.WriteString("Exercise:\n")
	b.WriteString(input.StepText)
	b.WriteString("\n")

	b.WriteString("\nBuilt-in hints the student can already see:\n")
	if len(input.StepHints) == 0 {
		b.WriteString("None\n")
	} else {
		for _, h := range input.StepHints {
			b.WriteString(fmt.Sprintf("- %s\n", h))
		}
	}

	b.WriteString(fmt.Sprintf("\nThe student has failed %d times in a row. Their latest attempt:\n", input.FailedRuns))
	b.WriteString(input.Code)
	b.WriteString("\n")

	if input.Output != "" {
		b.WriteString("\nWhat it printed:\n")
		b.WriteString(input.Output)
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
Write ONE short hint (2-3 sentences) that:
1. Points at the specific mistake in their latest attempt, or at the concept they seem to be missing.
2. Does not repeat the built-in hints above — add something new.
3. Does not contain the corrected code or the answer.
4. Uses simple, encouraging language.`)

	return b.String()
}
