package mdp

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"
)

// Environment is a deterministic transition oracle. It also samples legal
// actions uniformly at random from a source it owns.
//
// Environment is not safe for concurrent use. Agents may share one only
// after wiring is finished, and RandomTransition still draws from the
// single owned source, so concurrent callers must synchronize.
type Environment struct {
	transitions map[State]map[Action]State
	rng         *rand.Rand
	logger      *slog.Logger
}

// EnvironmentOption configures an Environment.
type EnvironmentOption func(*Environment)

// WithRand injects the random source used by RandomTransition.
func WithRand(rng *rand.Rand) EnvironmentOption {
	return func(e *Environment) {
		e.rng = rng
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *slog.Logger) EnvironmentOption {
	return func(e *Environment) {
		e.logger = logger
	}
}

// NewEnvironment returns an empty environment. Without WithRand the random
// source is seeded once from the clock.
func NewEnvironment(opts ...EnvironmentOption) *Environment {
	e := &Environment{
		transitions: make(map[State]map[Action]State),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// NewRand returns a PCG-backed source. A zero seed draws one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SetTransition wires action at state to next, replacing any previous target.
func (e *Environment) SetTransition(state State, action Action, next State) {
	actions, ok := e.transitions[state]
	if !ok {
		actions = make(map[Action]State)
		e.transitions[state] = actions
	}
	actions[action] = next
}

// AvailableActions returns the actions wired at state in ascending order.
func (e *Environment) AvailableActions(state State) []Action {
	actions := e.transitions[state]
	out := make([]Action, 0, len(actions))
	for a := range actions {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// RandomTransition picks one of the available actions at state uniformly.
func (e *Environment) RandomTransition(state State) (Transition, error) {
	actions := e.AvailableActions(state)
	if len(actions) == 0 {
		return Transition{Action: -1, Next: InvalidState}, fmt.Errorf("%w: %d", ErrUndefinedState, state)
	}

	action := actions[e.rng.IntN(len(actions))]
	return Transition{
		Action: action,
		Next:   e.transitions[state][action],
	}, nil
}

// NextState looks up where action leads from state. Unknown states and
// illegal actions yield InvalidState with ErrInvalidTransition.
func (e *Environment) NextState(state State, action Action) (State, error) {
	actions, ok := e.transitions[state]
	if !ok {
		e.logger.Warn("invalid state", slog.Int("state", int(state)))
		return InvalidState, fmt.Errorf("%w: unknown state %d", ErrInvalidTransition, state)
	}

	next, ok := actions[action]
	if !ok {
		e.logger.Warn("invalid action", slog.Int("state", int(state)), slog.Int("action", int(action)))
		return InvalidState, fmt.Errorf("%w: action %d not legal at state %d", ErrInvalidTransition, action, state)
	}
	return next, nil
}

// States returns every state with at least one wired action, ascending.
func (e *Environment) States() []State {
	out := make([]State, 0, len(e.transitions))
	for s, actions := range e.transitions {
		if len(actions) > 0 {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// Transitions lists the whole relation ordered by state, then action.
func (e *Environment) Transitions() []TransitionEntry {
	var out []TransitionEntry
	for _, s := range e.States() {
		for _, a := range e.AvailableActions(s) {
			out = append(out, TransitionEntry{State: s, Action: a, Next: e.transitions[s][a]})
		}
	}
	return out
}
