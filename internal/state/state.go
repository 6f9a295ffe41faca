// Package state holds the session tree for a course run and the store
// that versions it. The tree starts as a loading placeholder and becomes
// ready only after both remote loads (user record, page catalog) have
// landed; until then every derived read degrades to the placeholder.
package state

// Placeholder identities used before the tree is loaded.
const (
	PlaceholderPageSlug = "loading_placeholder"
	PlaceholderStepName = "loading_placeholder_step"
)

// placeholderPage is the fixed page returned by derived reads before
// readiness. Derived reads hand out copies; nothing writes through it.
var placeholderPage = Page{
	Slug:  PlaceholderPageSlug,
	Title: "Loading...",
	Steps: []Step{{Name: PlaceholderStepName, Text: "Loading..."}},
}

// New builds the initial loading-placeholder tree.
func New() *State {
	return &State{
		Pages:         map[string]Page{PlaceholderPageSlug: placeholderPage},
		PageSlugsList: []string{PlaceholderPageSlug},
		User: User{
			PageSlug:      PlaceholderPageSlug,
			PagesProgress: map[string]PageProgress{},
		},
		Prediction: Prediction{State: PredictionHidden},
	}
}

// Loaded reports whether both remote loads have landed: a user identity
// and more pages than the placeholder entry.
func (s *State) Loaded() bool {
	return s.User.Email != "" && len(s.PageSlugsList) > 1
}

// CurrentPage returns the active page, or the placeholder before the
// tree is loaded.
func (s *State) CurrentPage() Page {
	if !s.Loaded() {
		return placeholderPage
	}
	return s.Pages[s.User.PageSlug]
}

// CurrentStepName returns the last step reached on the active page.
// Falls back to the page's first step when no progress entry exists yet
// (the merge has not synthesized one).
func (s *State) CurrentStepName() string {
	if !s.Loaded() {
		return PlaceholderStepName
	}
	if p, ok := s.User.PagesProgress[s.User.PageSlug]; ok {
		return p.StepName
	}
	page := s.CurrentPage()
	if len(page.Steps) == 0 {
		return PlaceholderStepName
	}
	return page.Steps[0].Name
}

// CurrentStep resolves CurrentStepName against the active page. Names
// are identity, indices are position: the lookup is by name.
func (s *State) CurrentStep() Step {
	page := s.CurrentPage()
	name := s.CurrentStepName()
	for _, step := range page.Steps {
		if step.Name == name {
			return step
		}
	}
	if len(page.Steps) > 0 {
		return page.Steps[0]
	}
	return placeholderPage.Steps[0]
}
