package lesson

import (
	"strings"
	"testing"

	"github.com/abhisek/stepcoder/internal/state"
)

func TestRenderSolution_MaskUsesDisplayWidth(t *testing.T) {
	sol := &state.Solution{
		Lines: []string{"côté", " = ", "1"},
		Mask:  []bool{true, false, false},
	}

	got := renderSolution(sol, 40)

	// "côté" is 6 bytes but 4 cells wide; the mask must cover cells.
	if n := strings.Count(got, "▓"); n != 4 {
		t.Errorf("masked token covers %d cells, want 4:\n%s", n, got)
	}
	if !strings.Contains(got, " = ") || !strings.Contains(got, "1") {
		t.Errorf("revealed tokens missing:\n%s", got)
	}
	if strings.Contains(got, "côté") {
		t.Errorf("masked token leaked:\n%s", got)
	}
}

func TestRenderSolution_EmptyTokenStillVisible(t *testing.T) {
	sol := &state.Solution{
		Lines: []string{""},
		Mask:  []bool{true},
	}

	if got := renderSolution(sol, 40); !strings.Contains(got, "▓") {
		t.Errorf("empty masked token rendered invisible:\n%s", got)
	}
}
