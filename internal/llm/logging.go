package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/stepcoder/internal/journal"
)

// TutorRecorder receives a record of every LLM request.
type TutorRecorder interface {
	RecordTutorRequest(ctx context.Context, r journal.TutorRequest) error
}

// LoggingProvider is a decorator that records every LLM request in the journal.
type LoggingProvider struct {
	inner    Provider
	recorder TutorRecorder
}

// WithLogging wraps a Provider with journal logging.
func WithLogging(p Provider, rec TutorRecorder) Provider {
	return &LoggingProvider{inner: p, recorder: rec}
}

func (l *LoggingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Complete(ctx, req)

	rec := journal.TutorRequest{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Record the request but don't fail it if the journal write fails.
	if logErr := l.recorder.RecordTutorRequest(ctx, rec); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record tutor request: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
