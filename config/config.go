// Package config loads the YAML run configuration for training.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ActionNames are the move names accepted in transition lists.
var ActionNames = []string{"up", "down", "right", "left"}

// Config is the full run configuration.
type Config struct {
	// Agent holds the learning parameters.
	Agent AgentConfig `yaml:"agent"`

	// Training controls the episode loop.
	Training TrainingConfig `yaml:"training"`

	// Grid is wired when Transitions is empty.
	Grid GridConfig `yaml:"grid"`

	// Terminals end an episode with the given reward.
	Terminals []TerminalConfig `yaml:"terminals"`

	// Transitions replaces the grid wiring when set.
	Transitions []TransitionConfig `yaml:"transitions"`

	Log LogConfig `yaml:"log"`
}

type AgentConfig struct {
	Alpha   float64 `yaml:"alpha"`   // learning rate, (0,1]
	Gamma   float64 `yaml:"gamma"`   // discount, [0,1]
	Epsilon float64 `yaml:"epsilon"` // exploration probability, [0,1]
}

type TrainingConfig struct {
	Episodes int `yaml:"episodes"`

	// StepBudget caps the steps of one episode. Episodes that run out are
	// dropped without an update.
	StepBudget int `yaml:"step_budget"`

	Start int `yaml:"start"`

	// Seed fixes the random sources. Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

type TerminalConfig struct {
	State  int     `yaml:"state"`
	Reward float64 `yaml:"reward"`
}

type TransitionConfig struct {
	From   int    `yaml:"from"`
	Action string `yaml:"action"`
	To     int    `yaml:"to"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the 3x3 demo: start at 0, reward 100 at 5 and -100 at 4.
//
// The step budget equals the shortest path to the goal. The backward update
// feeds each step's new value to the step before it, so longer budgets let
// looping episodes inflate the values along the loop.
func Default() Config {
	return Config{
		Agent: AgentConfig{
			Alpha:   0.1,
			Gamma:   0.7,
			Epsilon: 0.1,
		},
		Training: TrainingConfig{
			Episodes:   1000,
			StepBudget: 3,
			Start:      0,
		},
		Grid: GridConfig{Rows: 3, Cols: 3},
		Terminals: []TerminalConfig{
			{State: 5, Reward: 100},
			{State: 4, Reward: -100},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks parameter ranges and wiring.
func (c Config) Validate() error {
	var errs []error

	if c.Agent.Alpha <= 0 || c.Agent.Alpha > 1 {
		errs = append(errs, fmt.Errorf("agent.alpha %v outside (0,1]", c.Agent.Alpha))
	}
	if c.Agent.Gamma < 0 || c.Agent.Gamma > 1 {
		errs = append(errs, fmt.Errorf("agent.gamma %v outside [0,1]", c.Agent.Gamma))
	}
	if c.Agent.Epsilon < 0 || c.Agent.Epsilon > 1 {
		errs = append(errs, fmt.Errorf("agent.epsilon %v outside [0,1]", c.Agent.Epsilon))
	}
	if c.Training.Episodes <= 0 {
		errs = append(errs, fmt.Errorf("training.episodes must be positive, got %d", c.Training.Episodes))
	}
	if c.Training.StepBudget <= 0 {
		errs = append(errs, fmt.Errorf("training.step_budget must be positive, got %d", c.Training.StepBudget))
	}
	if c.Training.Start < 0 {
		errs = append(errs, fmt.Errorf("training.start must be non-negative, got %d", c.Training.Start))
	}
	if len(c.Transitions) == 0 && (c.Grid.Rows <= 0 || c.Grid.Cols <= 0) {
		errs = append(errs, fmt.Errorf("grid %dx%d has no cells and no transitions are listed", c.Grid.Rows, c.Grid.Cols))
	}
	for i, t := range c.Terminals {
		if t.State < 0 {
			errs = append(errs, fmt.Errorf("terminals[%d]: state must be non-negative, got %d", i, t.State))
		}
	}
	for i, t := range c.Transitions {
		if t.From < 0 || t.To < 0 {
			errs = append(errs, fmt.Errorf("transitions[%d]: states must be non-negative", i))
		}
		if _, err := ParseAction(t.Action); err != nil {
			errs = append(errs, fmt.Errorf("transitions[%d]: %w", i, err))
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseAction maps a move name to its index in ActionNames.
func ParseAction(name string) (int, error) {
	for i, n := range ActionNames {
		if strings.EqualFold(n, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q, want one of %s", name, strings.Join(ActionNames, ", "))
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// TerminalRewards returns the terminal states keyed to their rewards.
func (c Config) TerminalRewards() map[int]float64 {
	out := make(map[int]float64, len(c.Terminals))
	for _, t := range c.Terminals {
		out[t.State] = t.Reward
	}
	return out
}
