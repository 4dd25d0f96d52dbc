package mdp

import (
	"fmt"
	"slices"
)

// QTable is a sparse action-value table. An absent entry reads as 0 in
// arithmetic, yet a state without entries offers nothing to exploit.
type QTable map[State]map[Action]float64

// QEntry is one recorded action value.
type QEntry struct {
	State  State
	Action Action
	Value  float64
}

// Value returns Q[s][a], or 0 when absent.
func (q QTable) Value(s State, a Action) float64 {
	return q[s][a]
}

// Set records Q[s][a].
func (q QTable) Set(s State, a Action, v float64) {
	actions, ok := q[s]
	if !ok {
		actions = make(map[Action]float64)
		q[s] = actions
	}
	actions[a] = v
}

// HasEntries reports whether any action value is recorded for s.
func (q QTable) HasEntries(s State) bool {
	return len(q[s]) > 0
}

// Max returns the greatest recorded value for s, or 0 if there is none.
func (q QTable) Max(s State) float64 {
	a, ok := q.argmax(s)
	if !ok {
		return 0
	}
	return q[s][a]
}

// Argmax returns the action with the strictly greatest value at s. Ties go
// to the lowest action id.
func (q QTable) Argmax(s State) (Action, error) {
	a, ok := q.argmax(s)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNoRecordedActions, s)
	}
	return a, nil
}

func (q QTable) argmax(s State) (Action, bool) {
	actions := q.actions(s)
	if len(actions) == 0 {
		return 0, false
	}
	best := actions[0]
	for _, a := range actions[1:] {
		if q[s][a] > q[s][best] {
			best = a
		}
	}
	return best, true
}

func (q QTable) actions(s State) []Action {
	out := make([]Action, 0, len(q[s]))
	for a := range q[s] {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Len is the number of recorded entries.
func (q QTable) Len() int {
	n := 0
	for _, actions := range q {
		n += len(actions)
	}
	return n
}

// Entries lists every recorded value ordered by state, then action.
func (q QTable) Entries() []QEntry {
	states := make([]State, 0, len(q))
	for s := range q {
		states = append(states, s)
	}
	slices.Sort(states)

	var out []QEntry
	for _, s := range states {
		for _, a := range q.actions(s) {
			out = append(out, QEntry{State: s, Action: a, Value: q[s][a]})
		}
	}
	return out
}
