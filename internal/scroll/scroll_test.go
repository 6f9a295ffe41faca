package scroll

import (
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepcoder/internal/engine"
)

func TestDriver_BuffersUntilAttached(t *testing.T) {
	d := NewDriver()
	d.ScrollTo("step-text-0", engine.ScrollOptions{})
	d.ScrollToBottom(engine.ScrollOptions{Container: engine.ContainerMessages})

	var mu sync.Mutex
	var got []tea.Msg
	d.Attach(func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
	})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected 2 flushed messages, got %d", len(got))
	}
	to, ok := got[0].(ToMsg)
	if !ok || to.Anchor != "step-text-0" {
		t.Errorf("first message = %+v, want ToMsg for step-text-0", got[0])
	}
	bottom, ok := got[1].(BottomMsg)
	if !ok || bottom.Opts.Container != engine.ContainerMessages {
		t.Errorf("second message = %+v, want BottomMsg for messages", got[1])
	}
}

func TestDriver_HonorsDelay(t *testing.T) {
	d := NewDriver()
	msgs := make(chan tea.Msg, 1)
	d.Attach(func(msg tea.Msg) { msgs <- msg })

	start := time.Now()
	d.ScrollTo("step-text-1", engine.ScrollOptions{Delay: 30 * time.Millisecond})

	select {
	case <-msgs:
		if time.Since(start) < 30*time.Millisecond {
			t.Error("message delivered before the requested delay")
		}
	case <-time.After(time.Second):
		t.Fatal("delayed message never delivered")
	}
}
