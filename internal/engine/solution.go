package engine

import (
	"context"

	"github.com/abhisek/stepcoder/internal/statepath"
)

// RevealSolutionToken unmasks the next hidden token of the current
// step's solution. Once everything is revealed further calls do nothing.
func (e *Engine) RevealSolutionToken() {
	e.store.Dispatch(ActionRevealSolutionToken, nil)
}

// ReorderSolutionLines moves the solution line at from to position to.
// Both positions must be valid; the caller owns that check.
func (e *Engine) ReorderSolutionLines(from, to int) {
	e.store.Dispatch(ActionReorderSolutionLines, reorderPayload{From: from, To: to})
}

// RequestSolution fetches the masked solution for the current step and
// installs it there. The requestingSolution counter goes up immediately
// so the view can show intent before the payload lands.
func (e *Engine) RequestSolution(ctx context.Context) {
	s := e.store.State()
	page := s.CurrentPage()
	step := s.CurrentStep()

	e.store.SetAtPath(statepath.P("requestingSolution"), s.RequestingSolution+1)

	go func() {
		sol, err := e.api.GetSolution(ctx, page.Index, step.Index)
		if err != nil {
			if isPermissionDenied(err) {
				e.redirectToLogin()
			}
			return
		}
		// Install on the step the request was made for, not whatever is
		// current when the payload arrives.
		e.store.Dispatch(ActionSetSolution, solutionPayload{
			PageSlug:  page.Slug,
			StepIndex: step.Index,
			Solution:  sol,
		})
	}()
}

// ShowHint reveals the next hint for the current step, bounded by the
// number of hints the step has.
func (e *Engine) ShowHint() {
	s := e.store.State()
	step := s.CurrentStep()
	if s.NumHints >= len(step.Hints) {
		return
	}
	e.store.SetAtPath(statepath.P("numHints"), s.NumHints+1)
}
