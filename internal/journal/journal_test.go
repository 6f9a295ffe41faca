package journal

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndReadCodeEntries(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	entries := []CodeEntry{
		{SessionID: "s1", PageSlug: "intro", StepName: "hello", Source: "editor", Input: "print(1)"},
		{SessionID: "s1", PageSlug: "intro", StepName: "hello", Source: "shell", Input: "print(2)"},
	}
	for _, e := range entries {
		if err := j.RecordCodeEntry(ctx, e); err != nil {
			t.Fatalf("RecordCodeEntry: %v", err)
		}
	}

	got, err := j.RecentCodeEntries(ctx, 10)
	if err != nil {
		t.Fatalf("RecentCodeEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Most recent first.
	if got[0].Input != "print(2)" {
		t.Errorf("got[0].Input = %q, want %q", got[0].Input, "print(2)")
	}
	if got[1].StepName != "hello" || got[1].PageSlug != "intro" {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestRecentCodeEntries_Limit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := j.RecordCodeEntry(ctx, CodeEntry{SessionID: "s", PageSlug: "p", StepName: "n", Source: "editor"}); err != nil {
			t.Fatalf("RecordCodeEntry: %v", err)
		}
	}

	got, err := j.RecentCodeEntries(ctx, 3)
	if err != nil {
		t.Fatalf("RecentCodeEntries: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestRecordStepMoveAndTutorRequest(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	if err := j.RecordStepMove(ctx, StepMove{SessionID: "s", PageSlug: "intro", FromStep: "a", ToStep: "b"}); err != nil {
		t.Errorf("RecordStepMove: %v", err)
	}
	if err := j.RecordTutorRequest(ctx, TutorRequest{Provider: "mock", Model: "mock", Success: true}); err != nil {
		t.Errorf("RecordTutorRequest: %v", err)
	}
}
