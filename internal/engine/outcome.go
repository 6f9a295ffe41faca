package engine

import (
	"context"
	"time"

	"github.com/abhisek/stepcoder/internal/api"
	"github.com/abhisek/stepcoder/internal/journal"
	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/statepath"
	"github.com/abhisek/stepcoder/internal/tutor"
)

// RunCode sends the learner's code to the remote executor and feeds the
// outcome through RanCode. The processing flag is up for the duration of
// the round trip.
func (e *Engine) RunCode(ctx context.Context, source string) {
	s := e.store.State()
	page := s.CurrentPage()
	step := s.CurrentStep()
	code := s.EditorContent

	e.store.SetAtPath(statepath.P("processing"), true)

	if e.opts.Recorder != nil {
		_ = e.opts.Recorder.RecordCodeEntry(ctx, journal.CodeEntry{
			SessionID: e.sessionID,
			PageSlug:  page.Slug,
			StepName:  step.Name,
			Source:    source,
			Input:     code,
		})
	}

	res, err := e.api.RunCode(ctx, api.RunRequest{
		Code:      code,
		Source:    source,
		PageIndex: page.Index,
		StepIndex: step.Index,
	})
	if err != nil {
		e.store.SetAtPath(statepath.P("processing"), false)
		if isPermissionDenied(err) {
			e.redirectToLogin()
			return
		}
		e.AddMessage("The server could not run your code. Please try again.")
		return
	}

	e.RanCode(res)
	e.trackRunForHints(ctx, step, code, res)
}

// RanCode reacts to an execution result: every accompanying message goes
// through the dedup feed in order, then the outcome transition runs and
// its scroll effects fire.
func (e *Engine) RanCode(res state.RunResult) {
	for _, msg := range res.Messages {
		e.AddMessage(msg)
	}

	next := e.store.Dispatch(ActionRanCode, res)

	if !res.Passed {
		return
	}

	// Content below the passed step is about to appear; bring the next
	// step into view once it has.
	step := next.CurrentStep()
	e.scroller.ScrollTo(StepAnchor(step.Index), ScrollOptions{
		Smooth:   true,
		Delay:    scrollDelay,
		Duration: scrollDuration,
	})

	if len(res.Prediction.Choices) > 0 {
		e.pinConsoleToBottom()
	}
}

// pinConsoleToBottom keeps a growing console view pinned to its bottom
// while result content streams in: a scroll every 30ms for 1.3s, then
// the task stops. Starting a new one cancels the previous task, and the
// deadline fires regardless of what happens to the triggering state.
func (e *Engine) pinConsoleToBottom() {
	ctx, cancel := context.WithTimeout(context.Background(), pinDuration)

	e.mu.Lock()
	if e.pinCancel != nil {
		e.pinCancel()
	}
	e.pinCancel = cancel
	e.mu.Unlock()

	go func() {
		defer cancel()
		ticker := time.NewTicker(pinInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.scroller.ScrollToBottom(ScrollOptions{Container: ContainerConsole})
			}
		}
	}()
}

// AnswerPrediction records the learner's guess in the prediction game.
// A correct guess ends the game; a second wrong guess ends it too.
func (e *Engine) AnswerPrediction(choice string) {
	s := e.store.State()
	p := s.Prediction
	if p.State != state.PredictionWaiting {
		return
	}

	e.store.SetAtPath(statepath.P("prediction", "userChoice"), choice)
	if choice == p.Answer {
		e.store.SetAtPath(statepath.P("prediction", "state"), state.PredictionCorrect)
		return
	}

	next := e.store.Dispatch(state.ActionSet, state.SetPayload{
		Path:  statepath.P("prediction", "wrongAnswers"),
		Value: append(append([]string(nil), p.WrongAnswers...), choice),
	})
	if len(next.Prediction.WrongAnswers) >= 2 {
		e.store.SetAtPath(statepath.P("prediction", "state"), state.PredictionWrong)
	}
}

// trackRunForHints counts consecutive failing runs per step and asks the
// tutor for one extra hint when the learner looks stuck.
func (e *Engine) trackRunForHints(ctx context.Context, step state.Step, code string, res state.RunResult) {
	if e.opts.Hints == nil {
		return
	}

	e.mu.Lock()
	if res.Passed || e.failedStep != step.Name {
		e.failedRuns = 0
		e.failedStep = step.Name
	}
	if res.Passed {
		e.mu.Unlock()
		return
	}
	e.failedRuns++
	stuck := e.failedRuns == e.opts.HintThreshold
	e.mu.Unlock()

	if !stuck {
		return
	}
	e.opts.Hints.RequestHint(ctx, tutor.HintInput{
		StepText:   step.Text,
		StepHints:  step.Hints,
		Code:       code,
		Output:     res.Output,
		FailedRuns: e.opts.HintThreshold,
	}, e.AddMessage)
}
