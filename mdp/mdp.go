// Package mdp implements a tabular Q-learning agent over a deterministic,
// explicitly wired transition map.
package mdp

import "errors"

// State identifies a situation the agent can be in. Legal ids are
// non-negative; InvalidState is reserved.
type State int

// Action identifies a choice available at a state.
type Action int

// InvalidState is returned by lookups that do not resolve to a configured
// transition.
const InvalidState State = -1

var (
	// ErrUndefinedState reports a state with no configured actions.
	ErrUndefinedState = errors.New("no available actions for state")

	// ErrInvalidTransition reports a lookup of an unknown state or an
	// action that is not legal for the state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNoRecordedActions reports a greedy choice at a state the value
	// table has no entries for.
	ErrNoRecordedActions = errors.New("no recorded actions for state")
)

// Transition is the outcome of taking Action: the environment moves to Next.
type Transition struct {
	Action Action
	Next   State
}

// Step is one entry of an episode trace.
type Step struct {
	State  State
	Action Action
}

// TransitionEntry is one wired (state, action) -> next mapping.
type TransitionEntry struct {
	State  State
	Action Action
	Next   State
}
