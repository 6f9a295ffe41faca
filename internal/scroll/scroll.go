// Package scroll delivers the engine's view-positioning effects into the
// Bubble Tea loop as messages. The engine calls the Driver from its own
// goroutines; the Driver turns each call into a message for the running
// program, honoring the requested delay.
package scroll

import (
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepcoder/internal/engine"
)

// ToMsg asks the view to bring an anchor into sight.
type ToMsg struct {
	Anchor string
	Opts   engine.ScrollOptions
}

// BottomMsg asks the view to pin a container to its bottom edge.
type BottomMsg struct {
	Opts engine.ScrollOptions
}

// Driver implements engine.Scroller over a program's Send. The engine
// is built before the program exists, so calls made before Attach are
// buffered and flushed once the program is up.
type Driver struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

// NewDriver creates an unattached Driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Attach connects the driver to a running program and flushes anything
// buffered while there was none.
func (d *Driver) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, msg := range pending {
		send(msg)
	}
}

// ScrollTo implements engine.Scroller.
func (d *Driver) ScrollTo(anchor string, opts engine.ScrollOptions) {
	d.post(ToMsg{Anchor: anchor, Opts: opts}, opts.Delay)
}

// ScrollToBottom implements engine.Scroller.
func (d *Driver) ScrollToBottom(opts engine.ScrollOptions) {
	d.post(BottomMsg{Opts: opts}, opts.Delay)
}

// Post delivers an arbitrary message through the driver, for
// collaborators that share the program's lifecycle.
func (d *Driver) Post(msg tea.Msg) {
	d.deliver(msg)
}

func (d *Driver) post(msg tea.Msg, delay time.Duration) {
	if delay > 0 {
		time.AfterFunc(delay, func() { d.deliver(msg) })
		return
	}
	d.deliver(msg)
}

func (d *Driver) deliver(msg tea.Msg) {
	d.mu.Lock()
	send := d.send
	if send == nil {
		d.pending = append(d.pending, msg)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	send(msg)
}
