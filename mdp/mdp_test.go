package mdp

import (
	"io"
	"log/slog"
	"math/rand/v2"
)

const (
	up Action = iota
	down
	right
	left
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

// newGridEnvironment wires the 3x3 grid
//
//	|0|1|2|
//	|3|4|5|
//	|6|7|8|
func newGridEnvironment(seed uint64) *Environment {
	env := NewEnvironment(WithRand(seeded(seed)), WithLogger(discardLogger()))

	env.SetTransition(0, down, 3)
	env.SetTransition(0, right, 1)

	env.SetTransition(1, left, 0)
	env.SetTransition(1, right, 2)
	env.SetTransition(1, down, 4)

	env.SetTransition(2, left, 1)
	env.SetTransition(2, down, 5)

	env.SetTransition(3, up, 0)
	env.SetTransition(3, right, 4)
	env.SetTransition(3, down, 6)

	env.SetTransition(4, left, 3)
	env.SetTransition(4, up, 1)
	env.SetTransition(4, right, 5)
	env.SetTransition(4, down, 7)

	env.SetTransition(5, up, 2)
	env.SetTransition(5, left, 4)
	env.SetTransition(5, down, 8)

	env.SetTransition(6, up, 3)
	env.SetTransition(6, right, 7)

	env.SetTransition(7, left, 6)
	env.SetTransition(7, up, 4)
	env.SetTransition(7, right, 8)

	env.SetTransition(8, left, 7)
	env.SetTransition(8, up, 5)

	return env
}

func gridEpisode(budget int) Episode {
	return Episode{
		Start:      0,
		Terminals:  map[State]float64{5: 100, 4: -100},
		StepBudget: budget,
	}
}
