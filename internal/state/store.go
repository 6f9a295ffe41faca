package state

import (
	"fmt"
	"sync"

	"github.com/abhisek/stepcoder/internal/statepath"
)

// ActionSet is the generic set-at-path transition, registered on every
// store. Its payload is a SetPayload.
const ActionSet = "SET"

// SetPayload carries the arguments of the generic set transition.
type SetPayload struct {
	Path  statepath.Path
	Value any
}

// Reducer is a named, payload-carrying pure transition function. It must
// not mutate the tree it receives; it returns the replacement tree.
type Reducer func(s *State, payload any) *State

// Store owns exactly one current tree and replaces it atomically on each
// dispatch. Reads hand out the live tree; because trees are never edited
// in place, a reader always sees a complete, consistent snapshot.
type Store struct {
	mu       sync.Mutex
	state    *State
	reducers map[string]Reducer
	subs     []func(*State)
}

// NewStore creates a store holding the loading-placeholder tree, with
// the generic set transition pre-registered.
func NewStore() *Store {
	st := &Store{
		state:    New(),
		reducers: map[string]Reducer{},
	}
	st.Register(ActionSet, func(s *State, payload any) *State {
		p := payload.(SetPayload)
		return statepath.Set(s, p.Path, p.Value)
	})
	return st
}

// Register binds a reducer to an action name. Registering twice for the
// same name is a programming error.
func (st *Store) Register(name string, r Reducer) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, dup := st.reducers[name]; dup {
		panic(fmt.Sprintf("state: action %q registered twice", name))
	}
	st.reducers[name] = r
}

// Dispatch applies the named transition to the current tree and swaps in
// the result. An unknown action name panics. Returns the new tree.
func (st *Store) Dispatch(name string, payload any) *State {
	_, next := st.Transition(name, payload)
	return next
}

// Transition is Dispatch returning both sides of the swap: the tree the
// transition consumed and the tree it produced, captured under one
// lock. Callers that branch on what a dispatch changed must use this —
// a separate State() read can see other writers in between.
func (st *Store) Transition(name string, payload any) (before, after *State) {
	st.mu.Lock()
	r, ok := st.reducers[name]
	if !ok {
		st.mu.Unlock()
		panic(fmt.Sprintf("state: unknown action %q", name))
	}
	before = st.state
	after = r(before, payload)
	st.state = after
	subs := st.subs
	st.mu.Unlock()

	for _, fn := range subs {
		fn(after)
	}
	return before, after
}

// SetAtPath is sugar for dispatching the generic set transition. The
// path may be given in any of the accepted forms (Path, dotted string,
// single key).
func (st *Store) SetAtPath(path any, value any) *State {
	return st.Dispatch(ActionSet, SetPayload{Path: statepath.From(path), Value: value})
}

// State returns the current tree.
func (st *Store) State() *State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Subscribe registers fn to run after every dispatch with the new tree.
// Subscribers run outside the store lock, in registration order.
func (st *Store) Subscribe(fn func(*State)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subs = append(st.subs, fn)
}
