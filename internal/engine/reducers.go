package engine

import (
	"errors"

	"github.com/abhisek/stepcoder/internal/api"
	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/statepath"
)

// Named actions registered by the engine. Payload types are noted next
// to each name.
const (
	ActionLoadUser             = "LOAD_USER"              // state.User
	ActionLoadPages            = "LOAD_PAGES"             // state.PagesPayload
	ActionFinishLoading        = "FINISH_LOADING"         // finishPayload
	ActionAddMessage           = "ADD_MESSAGE"            // string
	ActionCloseMessage         = "CLOSE_MESSAGE"          // string
	ActionRanCode              = "RAN_CODE"               // state.RunResult
	ActionRevealSolutionToken  = "REVEAL_SOLUTION_TOKEN"  // nil
	ActionReorderSolutionLines = "REORDER_SOLUTION_LINES" // reorderPayload
	ActionSetSolution          = "SET_SOLUTION"           // solutionPayload
)

type finishPayload struct {
	Progress map[string]state.PageProgress
	PageSlug string
}

type reorderPayload struct {
	From int
	To   int
}

type solutionPayload struct {
	PageSlug  string
	StepIndex int
	Solution  state.Solution
}

func (e *Engine) registerReducers() {
	st := e.store
	st.Register(ActionLoadUser, reduceLoadUser)
	st.Register(ActionLoadPages, reduceLoadPages)
	st.Register(ActionFinishLoading, reduceFinishLoading)
	st.Register(ActionAddMessage, reduceAddMessage)
	st.Register(ActionCloseMessage, reduceCloseMessage)
	st.Register(ActionRanCode, reduceRanCode)
	st.Register(ActionRevealSolutionToken, reduceRevealSolutionToken)
	st.Register(ActionReorderSolutionLines, reduceReorderSolutionLines)
	st.Register(ActionSetSolution, reduceSetSolution)
}

func reduceLoadUser(s *state.State, payload any) *state.State {
	u := payload.(state.User)
	if u.PagesProgress == nil {
		u.PagesProgress = map[string]state.PageProgress{}
	}
	return statepath.Set(s, statepath.P("user"), u)
}

func reduceLoadPages(s *state.State, payload any) *state.State {
	p := payload.(state.PagesPayload)
	next := statepath.Set(s, statepath.P("pages"), p.Pages)
	return statepath.Set(next, statepath.P("pageSlugsList"), p.PageSlugsList)
}

func reduceFinishLoading(s *state.State, payload any) *state.State {
	p := payload.(finishPayload)
	next := statepath.Set(s, statepath.P("user", "pagesProgress"), p.Progress)
	return statepath.Set(next, statepath.P("user", "pageSlug"), p.PageSlug)
}

// reduceAddMessage appends to both the visible feed and the permanent
// ledger. A message already in the ledger is never shown again, even if
// it was closed since; dedup is by content equality.
func reduceAddMessage(s *state.State, payload any) *state.State {
	msg := payload.(string)
	if msg == "" {
		return s
	}
	for _, past := range s.PastMessages {
		if past == msg {
			return s
		}
	}
	next := statepath.Push(s, statepath.P("messages"), msg)
	return statepath.Push(next, statepath.P("pastMessages"), msg)
}

// reduceCloseMessage hides a message; the ledger keeps it.
func reduceCloseMessage(s *state.State, payload any) *state.State {
	return statepath.Remove(s, statepath.P("messages"), payload.(string))
}

// reduceRanCode applies an execution outcome. Processing always clears;
// the reset of transient fields and the new prediction install happen
// only on a passing run. The visible-message reset on pass mirrors the
// original behavior: messages delivered alongside a passing result stay
// in the ledger but are not shown.
func reduceRanCode(s *state.State, payload any) *state.State {
	res := payload.(state.RunResult)

	next := statepath.Set(s, statepath.P("processing"), false)
	if res.Progress != nil {
		next = statepath.Set(next, statepath.P("user", "pagesProgress"), res.Progress)
	}
	if !res.Passed {
		return next
	}

	next = statepath.Set(next, statepath.P("numHints"), 0)
	next = statepath.Set(next, statepath.P("messages"), []string(nil))
	next = statepath.Set(next, statepath.P("requestingSolution"), 0)

	predState := state.PredictionHidden
	if len(res.Prediction.Choices) > 0 {
		predState = state.PredictionWaiting
	}
	return statepath.Set(next, statepath.P("prediction"), state.Prediction{
		Choices:    res.Prediction.Choices,
		Answer:     res.Prediction.Answer,
		State:      predState,
		CodeResult: &res,
	})
}

// reduceRevealSolutionToken unmasks the next hidden token of the current
// step's solution. With nothing left to reveal it is a no-op; a token
// once revealed never goes back.
func reduceRevealSolutionToken(s *state.State, _ any) *state.State {
	step := s.CurrentStep()
	sol := step.Solution
	if sol == nil || len(sol.MaskedIndices) == 0 {
		return s
	}

	i := sol.MaskedIndices[0]
	mask := append([]bool(nil), sol.Mask...)
	mask[i] = false

	next := &state.Solution{
		Lines:         sol.Lines,
		Mask:          mask,
		MaskedIndices: append([]int(nil), sol.MaskedIndices[1:]...),
	}
	path := statepath.P("pages", s.User.PageSlug, "steps", step.Index, "solution")
	return statepath.Set(s, path, next)
}

// reduceReorderSolutionLines splices the line at From out and back in at
// To. Out-of-range positions are the caller's bug and panic.
func reduceReorderSolutionLines(s *state.State, payload any) *state.State {
	p := payload.(reorderPayload)
	step := s.CurrentStep()
	path := statepath.P("pages", s.User.PageSlug, "steps", step.Index, "solution", "lines")

	line := statepath.Get(s, append(path, p.From))
	next := statepath.Remove(s, path, p.From)
	return statepath.Insert(next, path, p.To, line)
}

func reduceSetSolution(s *state.State, payload any) *state.State {
	p := payload.(solutionPayload)
	sol := p.Solution
	path := statepath.P("pages", p.PageSlug, "steps", p.StepIndex, "solution")
	return statepath.Set(s, path, &sol)
}

func isPermissionDenied(err error) bool {
	return errors.Is(err, api.ErrPermissionDenied)
}
