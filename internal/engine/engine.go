// Package engine drives the session state for a course run. It owns the
// named transitions over the state tree, reconciles the two independent
// remote loads into one ready tree, and runs the side effects (remote
// sync, view scrolling, journaling) that follow each transition. Side
// effects run after dispatch, outside the pure-transition boundary, and
// are never retried.
package engine

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/stepcoder/internal/api"
	"github.com/abhisek/stepcoder/internal/journal"
	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/tutor"
)

// Scroll timing. The initial load-driven navigation scrolls with no
// animation; later navigation uses the smooth delayed form.
const (
	scrollDelay    = 500 * time.Millisecond
	scrollDuration = 1000 * time.Millisecond
	pinInterval    = 30 * time.Millisecond
	pinDuration    = 1300 * time.Millisecond
)

// Containers the engine scrolls.
const (
	ContainerMessages = "messages"
	ContainerConsole  = "console"
)

// defaultHintThreshold is the number of consecutive failing runs on one
// step before the tutor is asked for an extra hint.
const defaultHintThreshold = 3

// ScrollOptions mirrors the scroll collaborator's call shape.
type ScrollOptions struct {
	Delay     time.Duration
	Duration  time.Duration
	Smooth    bool
	Container string
}

// Scroller brings parts of the view into sight. Implementations must be
// safe to call from any goroutine.
type Scroller interface {
	ScrollTo(anchor string, opts ScrollOptions)
	ScrollToBottom(opts ScrollOptions)
}

// Redirector sends the learner to the login flow, carrying the target to
// return to afterwards.
type Redirector interface {
	RedirectToLogin(next string)
}

// API is the slice of the remote client the engine needs. GetUser and
// GetPages are request/response; the Set* calls are fire-and-forget.
type API interface {
	GetUser(ctx context.Context) (state.User, error)
	GetPages(ctx context.Context) (state.PagesPayload, error)
	SetPage(slug string)
	SetPagesProgress(progress map[string]state.PageProgress)
	SetDeveloperMode(on bool)
	RunCode(ctx context.Context, req api.RunRequest) (state.RunResult, error)
	GetSolution(ctx context.Context, pageIndex, stepIndex int) (state.Solution, error)
}

// Recorder appends session activity to the local journal. Failures are
// swallowed; the journal is best-effort history, not state.
type Recorder interface {
	RecordCodeEntry(ctx context.Context, e journal.CodeEntry) error
	RecordStepMove(ctx context.Context, m journal.StepMove) error
}

// HintSource produces one extra hint when the learner is stuck.
type HintSource interface {
	RequestHint(ctx context.Context, input tutor.HintInput, deliver func(hint string))
}

// Options configures optional engine collaborators.
type Options struct {
	// StartPage is the page slug requested at launch (the `page` query
	// parameter of the web client). Empty means resume stored progress.
	StartPage string

	// Recorder, when set, journals code entries and step moves.
	Recorder Recorder

	// Hints, when set, supplies tutor hints after HintThreshold
	// consecutive failing runs on one step.
	Hints         HintSource
	HintThreshold int
}

// StepAnchor is the scroll anchor for the step at the given position.
func StepAnchor(index int) string {
	return "step-text-" + strconv.Itoa(index)
}

// Engine is the session engine: one per course run, injected into every
// surface that needs it.
type Engine struct {
	store    *state.Store
	api      API
	scroller Scroller
	redirect Redirector
	opts     Options

	sessionID string

	mu         sync.Mutex
	merged     bool
	pinCancel  context.CancelFunc
	failedRuns int
	failedStep string
}

// New creates an Engine around the given store and collaborators.
func New(st *state.Store, client API, scroller Scroller, redirect Redirector, opts Options) *Engine {
	if opts.HintThreshold <= 0 {
		opts.HintThreshold = defaultHintThreshold
	}
	e := &Engine{
		store:     st,
		api:       client,
		scroller:  scroller,
		redirect:  redirect,
		opts:      opts,
		sessionID: uuid.New().String(),
	}
	e.registerReducers()
	return e
}

// Store exposes the underlying store for read access and subscriptions.
func (e *Engine) Store() *state.Store {
	return e.store
}

// State returns the current tree.
func (e *Engine) State() *state.State {
	return e.store.State()
}

// SessionID identifies this course run in the journal.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Start issues the two remote loads. They run concurrently and may land
// in either order; finishLoading reconciles whichever arrives second.
func (e *Engine) Start(ctx context.Context) {
	go e.loadUser(ctx)
	go e.loadPages(ctx)
}

// Close stops any timed scroll task still running.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pinCancel != nil {
		e.pinCancel()
		e.pinCancel = nil
	}
}

func (e *Engine) loadUser(ctx context.Context) {
	u, err := e.api.GetUser(ctx)
	if err != nil {
		e.handleLoadError(err)
		return
	}
	if u.Email == "" {
		// No identity: the session cannot proceed.
		e.redirectToLogin()
		return
	}
	e.store.Dispatch(ActionLoadUser, u)
	e.finishLoading()
}

func (e *Engine) loadPages(ctx context.Context) {
	p, err := e.api.GetPages(ctx)
	if err != nil {
		e.handleLoadError(err)
		return
	}
	e.store.Dispatch(ActionLoadPages, p)
	e.finishLoading()
}

func (e *Engine) handleLoadError(err error) {
	if isPermissionDenied(err) {
		e.redirectToLogin()
	}
	// Other transport failures are the remote layer's concern; the tree
	// simply stays in its placeholder shape.
}

// finishLoading merges the two loads once both have landed. It is called
// after each load and is a no-op until the tree is ready, so the real
// merge runs exactly once, on whichever load is second.
func (e *Engine) finishLoading() {
	s := e.store.State()
	if !s.Loaded() {
		return
	}

	// The readiness predicate gates the merge; the flag only keeps the
	// follow-up side effects from firing twice when both load callbacks
	// race past it.
	e.mu.Lock()
	if e.merged {
		e.mu.Unlock()
		return
	}
	e.merged = true
	e.mu.Unlock()

	merged := make(map[string]state.PageProgress, len(s.PageSlugsList))
	for _, slug := range s.PageSlugsList {
		if p, ok := s.User.PagesProgress[slug]; ok {
			merged[slug] = p
			continue
		}
		page := s.Pages[slug]
		if len(page.Steps) == 0 {
			continue
		}
		merged[slug] = state.PageProgress{StepName: page.Steps[0].Name}
	}

	slug := s.User.PageSlug
	if e.opts.StartPage != "" {
		if _, ok := s.Pages[e.opts.StartPage]; ok {
			slug = e.opts.StartPage
		}
	}
	if _, ok := s.Pages[slug]; !ok && len(s.PageSlugsList) > 1 {
		slug = s.PageSlugsList[1]
	}

	next := e.store.Dispatch(ActionFinishLoading, finishPayload{
		Progress: merged,
		PageSlug: slug,
	})

	// Navigation side effects use the just-merged tree.
	step := next.CurrentStep()
	e.scroller.ScrollTo(StepAnchor(step.Index), ScrollOptions{Smooth: false})
	e.api.SetPage(slug)
}

func (e *Engine) redirectToLogin() {
	e.redirect.RedirectToLogin(e.loginNext())
}

// loginNext is the path+query to come back to after login.
func (e *Engine) loginNext() string {
	s := e.store.State()
	next := "/course/"
	slug := e.opts.StartPage
	if slug == "" && s.Loaded() {
		slug = s.User.PageSlug
	}
	if slug != "" {
		next += "?page=" + url.QueryEscape(slug)
	}
	return next
}
