// Package tutor turns a learner's failing runs into one extra,
// LLM-generated hint. It sits behind the engine's HintSource hook and
// never blocks the caller: hints are generated on a goroutine and
// delivered through a callback when ready.
package tutor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/stepcoder/internal/llm"
)

// HintInput describes the learner's situation when they got stuck.
type HintInput struct {
	// StepText is the exercise text of the step the learner is on.
	StepText string

	// StepHints are the step's built-in hints, for the tutor to build on
	// without repeating.
	StepHints []string

	// Code is the learner's latest submission.
	Code string

	// Output is what running that submission printed.
	Output string

	// FailedRuns is how many times in a row this step has failed.
	FailedRuns int
}

// Config holds hint generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for hint generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.5,
	}
}

// Service generates hints asynchronously.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a hint generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// RequestHint starts async hint generation and calls deliver with the
// hint text when it is ready. Failures are swallowed with a stderr
// warning; a missing hint must never interrupt the lesson.
func (s *Service) RequestHint(ctx context.Context, input HintInput, deliver func(hint string)) {
	go func() {
		hint, err := s.generate(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: tutor hint failed: %v\n", err)
			return
		}
		deliver(hint)
	}()
}

func (s *Service) generate(ctx context.Context, input HintInput) (string, error) {
	req := llm.Request{
		System:      hintSystemPrompt,
		Prompt:      buildHintPrompt(input),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("hint generation: %w", err)
	}

	hint := strings.TrimSpace(resp.Text)
	if hint == "" {
		return "", fmt.Errorf("hint generation: empty completion")
	}
	return hint, nil
}
