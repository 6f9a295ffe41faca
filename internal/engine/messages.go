package engine

// AddMessage shows a feedback message unless it is empty or was ever
// shown before. A newly visible message scrolls the feed to the bottom.
func (e *Engine) AddMessage(msg string) {
	// The ledger only ever grows, and only on an append, so comparing
	// it across the transition is immune to concurrent closes.
	before, after := e.store.Transition(ActionAddMessage, msg)
	if len(after.PastMessages) == len(before.PastMessages) {
		return
	}
	e.scroller.ScrollToBottom(ScrollOptions{
		Container: ContainerMessages,
		Duration:  scrollDuration,
		Delay:     scrollDelay,
	})
}

// CloseMessage hides a visible message. The dedup ledger keeps it, so a
// closed message can never reappear. Closing an absent message is a
// silent no-op.
func (e *Engine) CloseMessage(msg string) {
	e.store.Dispatch(ActionCloseMessage, msg)
}
