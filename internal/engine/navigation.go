package engine

import (
	"context"

	"github.com/abhisek/stepcoder/internal/journal"
	"github.com/abhisek/stepcoder/internal/statepath"
)

// SetPage makes slug the active page, scrolls to that page's current
// step and informs the remote store. An empty slug (an out-of-range
// index resolved to nothing) is rejected before any state change.
func (e *Engine) SetPage(slug string) {
	if slug == "" {
		return
	}
	next := e.store.SetAtPath(statepath.P("user", "pageSlug"), slug)

	step := next.CurrentStep()
	e.scroller.ScrollTo(StepAnchor(step.Index), ScrollOptions{
		Smooth:   true,
		Delay:    scrollDelay,
		Duration: scrollDuration,
	})
	e.api.SetPage(slug)
}

// SetPageIndex resolves a traversal-order position to its slug.
func (e *Engine) SetPageIndex(i int) {
	s := e.store.State()
	if i < 0 || i >= len(s.PageSlugsList) {
		return
	}
	e.SetPage(s.PageSlugsList[i])
}

// MovePage navigates delta pages forward or back.
func (e *Engine) MovePage(delta int) {
	e.SetPageIndex(e.store.State().CurrentPage().Index + delta)
}

// MoveStep navigates delta steps within the current page. Past either
// boundary it is a no-op: no state change, no remote call. On success
// the whole progress map is pushed to the remote store, which is the
// authority for resuming progress.
func (e *Engine) MoveStep(delta int) {
	s := e.store.State()
	page := s.CurrentPage()
	cur := s.CurrentStep()

	target := cur.Index + delta
	if target < 0 || target >= len(page.Steps) {
		return
	}
	name := page.Steps[target].Name

	next := e.store.SetAtPath(
		statepath.P("user", "pagesProgress", page.Slug, "step_name"), name)

	e.api.SetPagesProgress(next.User.PagesProgress)
	e.scroller.ScrollTo(StepAnchor(target), ScrollOptions{
		Smooth:   true,
		Delay:    scrollDelay,
		Duration: scrollDuration,
	})

	if e.opts.Recorder != nil {
		_ = e.opts.Recorder.RecordStepMove(context.Background(), journal.StepMove{
			SessionID: e.sessionID,
			PageSlug:  page.Slug,
			FromStep:  cur.Name,
			ToStep:    name,
		})
	}
}

// SetDeveloperMode toggles developer mode locally and remotely.
func (e *Engine) SetDeveloperMode(on bool) {
	e.store.SetAtPath(statepath.P("user", "developerMode"), on)
	e.api.SetDeveloperMode(on)
}

// SetEditorContent stores the learner's code buffer. The content is
// opaque to the engine beyond storage.
func (e *Engine) SetEditorContent(code string) {
	e.store.SetAtPath(statepath.P("editorContent"), code)
}
