package mdp

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// Outcome is how an episode ended.
type Outcome int

const (
	// OutcomeTerminal means a terminal state was reached and its reward
	// propagated.
	OutcomeTerminal Outcome = iota
	// OutcomeExhausted means the step budget ran out. The trace is dropped
	// without an update.
	OutcomeExhausted
	// OutcomeFailed means no transition could be chosen.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTerminal:
		return "terminal"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Episode describes the trials a Trainer runs.
type Episode struct {
	Start      State
	Terminals  map[State]float64 // terminal state -> reward

	// StepBudget caps the steps of one episode. An episode that exhausts it
	// is dropped without StopSession, so it teaches the agent nothing.
	StepBudget int
}

// EpisodeResult records one finished episode.
type EpisodeResult struct {
	Session  uuid.UUID
	Outcome  Outcome
	Steps    int
	Path     []State
	Terminal State
	Reward   float64
}

// Trainer drives an Agent through episodes: start the session, choose,
// record and advance until a terminal state or the budget, then stop the
// session with the terminal's reward.
type Trainer struct {
	agent   *Agent
	episode Episode
	metrics *Metrics
	logger  *slog.Logger
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

func WithTrainerLogger(logger *slog.Logger) TrainerOption {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// WithMetrics reports every episode to m.
func WithMetrics(m *Metrics) TrainerOption {
	return func(t *Trainer) {
		t.metrics = m
	}
}

func NewTrainer(agent *Agent, episode Episode, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		agent:   agent,
		episode: episode,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// RunEpisode runs a single episode from the configured start state.
func (t *Trainer) RunEpisode() (EpisodeResult, error) {
	state := t.episode.Start
	result := EpisodeResult{
		Session:  t.agent.StartSession(),
		Path:     []State{state},
		Terminal: InvalidState,
	}

	for step := 0; step < t.episode.StepBudget; step++ {
		tr, err := t.agent.ChooseTransition(state)
		if err != nil {
			result.Outcome = OutcomeFailed
			t.metrics.observe(result, t.agent.Len())
			return result, fmt.Errorf("choose transition at state %d: %w", state, err)
		}

		t.agent.AddActionHistory(state, tr.Action)
		state = tr.Next
		result.Steps++
		result.Path = append(result.Path, state)

		reward, ok := t.episode.Terminals[state]
		if !ok {
			continue
		}

		t.agent.StopSession(reward)
		result.Outcome = OutcomeTerminal
		result.Terminal = state
		result.Reward = reward
		t.metrics.observe(result, t.agent.Len())
		t.logger.Debug("episode finished",
			slog.String("session", result.Session.String()),
			slog.Int("steps", result.Steps),
			slog.Int("terminal", int(state)),
			slog.Float64("reward", reward))
		return result, nil
	}

	result.Outcome = OutcomeExhausted
	t.metrics.observe(result, t.agent.Len())
	t.logger.Debug("episode abandoned, step budget exhausted",
		slog.String("session", result.Session.String()),
		slog.Int("budget", t.episode.StepBudget))
	return result, nil
}

// Train runs n episodes. The first failing episode stops training; the
// results gathered so far are returned with the error.
func (t *Trainer) Train(n int) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, 0, n)
	for i := 0; i < n; i++ {
		result, err := t.RunEpisode()
		results = append(results, result)
		if err != nil {
			return results, fmt.Errorf("episode %d: %w", i, err)
		}
	}
	return results, nil
}

// GreedyPath follows BestTransition from start until a terminal state or
// budget steps. The returned path includes start.
func (t *Trainer) GreedyPath(start State, budget int) ([]State, error) {
	path := []State{start}
	state := start
	for i := 0; i < budget; i++ {
		tr, err := t.agent.BestTransition(state)
		if err != nil {
			return path, err
		}
		state = tr.Next
		path = append(path, state)
		if _, ok := t.episode.Terminals[state]; ok {
			break
		}
	}
	return path, nil
}

// Summary aggregates episode results.
type Summary struct {
	Episodes   int
	Terminal   int
	Exhausted  int
	Failed     int
	Positive   int // terminal episodes with a reward above zero
	Window     int
	MeanReward float64 // over the trailing window, exhausted episodes count as 0
	MeanSteps  float64 // over the trailing window
}

// Summarize counts outcomes over all results and averages reward and
// episode length over the last window results (all when window <= 0).
func Summarize(results []EpisodeResult, window int) Summary {
	s := Summary{Episodes: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeTerminal:
			s.Terminal++
			if r.Reward > 0 {
				s.Positive++
			}
		case OutcomeExhausted:
			s.Exhausted++
		case OutcomeFailed:
			s.Failed++
		}
	}

	tail := results
	if window > 0 && window < len(results) {
		tail = results[len(results)-window:]
	}
	s.Window = len(tail)
	if len(tail) == 0 {
		return s
	}

	rewards := make([]float64, len(tail))
	steps := make([]float64, len(tail))
	for i, r := range tail {
		rewards[i] = r.Reward
		steps[i] = float64(r.Steps)
	}
	s.MeanReward = stat.Mean(rewards, nil)
	s.MeanSteps = stat.Mean(steps, nil)
	return s
}
