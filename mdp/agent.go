package mdp

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
)

// Agent learns a QTable from episodes driven by an external loop.
//
// Expected parameter ranges: alpha in (0,1], gamma in [0,1], epsilon in
// [0,1]. Values outside them are not rejected.
//
// The agent reads env but never mutates it, and must not outlive it. An
// Agent is owned by a single goroutine.
type Agent struct {
	alpha   float64 // learning rate
	gamma   float64 // discount of the next state's best value
	epsilon float64 // exploration probability

	env     *Environment
	q       QTable
	history []Step
	session uuid.UUID

	rng    *rand.Rand
	logger *slog.Logger
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithAgentRand injects the source used for the exploration draw.
func WithAgentRand(rng *rand.Rand) AgentOption {
	return func(a *Agent) {
		a.rng = rng
	}
}

// WithAgentLogger sets the agent's logger.
func WithAgentLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) {
		a.logger = logger
	}
}

func NewAgent(alpha, gamma, epsilon float64, env *Environment, opts ...AgentOption) *Agent {
	a := &Agent{
		alpha:   alpha,
		gamma:   gamma,
		epsilon: epsilon,
		env:     env,
		q:       QTable{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = NewRand(0)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// StartSession clears the trace and opens a new session. It must precede
// every episode, or the previous episode's steps are credited again.
func (a *Agent) StartSession() uuid.UUID {
	a.history = a.history[:0]
	a.session = uuid.New()
	return a.session
}

// AddActionHistory appends a step to the current trace.
func (a *Agent) AddActionHistory(state State, action Action) {
	a.history = append(a.history, Step{State: state, Action: action})
}

// StopSession propagates reward backwards through the trace. The trace is
// kept until the next StartSession.
func (a *Agent) StopSession(reward float64) {
	a.updateQTable(reward)
}

// updateQTable walks the trace from the last step to the first. Each
// step's freshly updated value becomes the reward fed to the step before
// it, instead of reusing the terminal reward.
func (a *Agent) updateQTable(reward float64) {
	if len(a.history) == 0 {
		a.logger.Warn("action history is empty, no updates to q-table",
			slog.String("session", a.session.String()))
		return
	}

	carried := reward
	for i := len(a.history) - 1; i >= 0; i-- {
		step := a.history[i]
		next, err := a.env.NextState(step.State, step.Action)
		if err != nil {
			a.logger.Debug("trace step has no wired transition",
				slog.Int("state", int(step.State)), slog.Int("action", int(step.Action)))
		}

		q := a.q.Value(step.State, step.Action)
		q += a.alpha * (carried + a.gamma*a.MaxQ(next) - q)
		a.q.Set(step.State, step.Action, q)

		carried = q
	}

	a.logger.Debug("q-table updated",
		slog.String("session", a.session.String()),
		slog.Int("steps", len(a.history)),
		slog.Float64("reward", reward),
		slog.Int("entries", a.q.Len()))
}

// MaxQ is the best recorded value at state, 0 for InvalidState or a state
// without entries.
func (a *Agent) MaxQ(state State) float64 {
	if state == InvalidState {
		return 0
	}
	return a.q.Max(state)
}

// ActionHistory returns a copy of the current trace in chronological order.
func (a *Agent) ActionHistory() []Step {
	return slices.Clone(a.history)
}

// QTable returns the recorded values ordered by state, then action.
func (a *Agent) QTable() []QEntry {
	return a.q.Entries()
}

// Value returns the recorded value for (state, action), 0 when absent.
func (a *Agent) Value(state State, action Action) float64 {
	return a.q.Value(state, action)
}

// Len is the number of recorded table entries.
func (a *Agent) Len() int {
	return a.q.Len()
}

func (a *Agent) SessionID() uuid.UUID {
	return a.session
}

func (a *Agent) Environment() *Environment {
	return a.env
}
