// Package home is the course table of contents: every page in traversal
// order, with the learner's position on each.
package home

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepcoder/internal/engine"
	"github.com/abhisek/stepcoder/internal/router"
	"github.com/abhisek/stepcoder/internal/screen"
	"github.com/abhisek/stepcoder/internal/ui/components"
	"github.com/abhisek/stepcoder/internal/ui/layout"
	"github.com/abhisek/stepcoder/internal/ui/theme"
)

// OpenLesson builds the screen pushed when a page is chosen. Injected
// so this package does not depend on the lesson screen.
type OpenLesson func() screen.Screen

// HomeScreen lists the course pages.
type HomeScreen struct {
	eng        *engine.Engine
	openLesson OpenLesson
	menu       components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates the table of contents over the engine's current tree.
func New(eng *engine.Engine, openLesson OpenLesson) *HomeScreen {
	h := &HomeScreen{eng: eng, openLesson: openLesson}
	h.menu = components.NewMenu(h.buildItems())
	return h
}

func (h *HomeScreen) buildItems() []components.MenuItem {
	s := h.eng.State()
	items := make([]components.MenuItem, 0, len(s.PageSlugsList))
	for _, slug := range s.PageSlugsList {
		page, ok := s.Pages[slug]
		if !ok {
			continue
		}
		detail := ""
		if prog, ok := s.User.PagesProgress[slug]; ok {
			for i, step := range page.Steps {
				if step.Name == prog.StepName {
					detail = fmt.Sprintf("step %d/%d", i+1, len(page.Steps))
					break
				}
			}
		}
		slug := slug
		items = append(items, components.MenuItem{
			Label:  page.Title,
			Detail: detail,
			Action: func() tea.Cmd {
				h.eng.SetPage(slug)
				lesson := h.openLesson()
				return func() tea.Msg { return router.PushScreenMsg{Screen: lesson} }
			},
		})
	}
	return items
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	// Progress may have moved while a lesson was open.
	if _, ok := msg.(tea.KeyMsg); ok {
		sel := h.menu.Selected
		h.menu = components.NewMenu(h.buildItems())
		h.menu.Selected = sel
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	heading := theme.Title.Width(width).Render("Course contents")
	sub := theme.Subtitle.Width(width).Render("Pick a page to continue")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render("\n" + heading + "\n" + sub + "\n\n" + h.menu.View())
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Status shows who is signed in.
func (h *HomeScreen) Status() string {
	return h.eng.State().User.Email
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open page"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
