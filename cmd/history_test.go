package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/stepcoder/internal/journal"
)

func TestRenderHistory(t *testing.T) {
	ts := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	entries := []journal.CodeEntry{
		{
			PageSlug:  "loops",
			StepName:  "for_loop",
			Source:    "editor",
			Input:     "for i in range(5):\n    print(i)\n",
			Timestamp: ts,
		},
	}

	got := renderHistory(entries)

	if !strings.Contains(got, "2026-08-30 14:05  loops / for_loop") {
		t.Errorf("renderHistory missing header line:\n%s", got)
	}
	if !strings.Contains(got, "    for i in range(5):\n        print(i)\n") {
		t.Errorf("renderHistory missing submitted code:\n%s", got)
	}
	// The origin tag is bookkeeping, not program text.
	if strings.Contains(got, "    editor\n") {
		t.Errorf("renderHistory printed the source tag as code:\n%s", got)
	}
}

func TestRenderHistory_Empty(t *testing.T) {
	got := renderHistory(nil)
	if got != "No code submissions recorded yet.\n" {
		t.Errorf("renderHistory(nil) = %q", got)
	}
}
