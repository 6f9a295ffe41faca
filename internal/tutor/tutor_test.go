package tutor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/stepcoder/internal/llm"
)

func stuckInput() HintInput {
	return HintInput{
		StepText:   "Print the numbers 1 to 5, one per line.",
		StepHints:  []string{"You need a loop.", "range(5) counts from 0."},
		Code:       "for i in range(5):\n    print(i)",
		Output:     "0\n1\n2\n3\n4\n",
		FailedRuns: 3,
	}
}

func TestService_DeliversHint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: "Look closely at the first number your loop prints.",
	})
	svc := NewService(mock, DefaultConfig())

	hints := make(chan string, 1)
	svc.RequestHint(t.Context(), stuckInput(), func(hint string) {
		hints <- hint
	})

	select {
	case hint := <-hints:
		if hint != "Look closely at the first number your loop prints." {
			t.Errorf("unexpected hint: %q", hint)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected a hint to be delivered")
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestService_PromptCarriesContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "A hint."})
	svc := NewService(mock, DefaultConfig())

	done := make(chan struct{})
	svc.RequestHint(t.Context(), stuckInput(), func(string) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("hint was never delivered")
	}

	req := mock.Calls[0]
	if req.System == "" {
		t.Error("expected a system prompt")
	}
	for _, want := range []string{
		"Print the numbers 1 to 5",
		"range(5) counts from 0",
		"for i in range(5)",
		"failed 3 times",
	} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestService_LLMErrorDeliversNothing(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("down")},
	})
	svc := NewService(mock, DefaultConfig())

	hints := make(chan string, 1)
	svc.RequestHint(t.Context(), stuckInput(), func(hint string) {
		hints <- hint
	})

	select {
	case hint := <-hints:
		t.Errorf("expected no hint on LLM error, got %q", hint)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestService_BlankCompletionDeliversNothing(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "   \n"})
	svc := NewService(mock, DefaultConfig())

	hints := make(chan string, 1)
	svc.RequestHint(t.Context(), stuckInput(), func(hint string) {
		hints <- hint
	})

	select {
	case hint := <-hints:
		t.Errorf("expected no hint for blank completion, got %q", hint)
	case <-time.After(200 * time.Millisecond):
	}
}
