package main

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodeStranger-Fred/qlearning/mdp"
)

func quietEnvironment() *mdp.Environment {
	return mdp.NewEnvironment(
		mdp.WithRand(mdp.NewRand(1)),
		mdp.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestGridWorld_WireMatchesDemo(t *testing.T) {
	env := quietEnvironment()
	GridWorld{Rows: 3, Cols: 3}.Wire(env)

	assert.Equal(t, []mdp.TransitionEntry{
		{State: 0, Action: Down, Next: 3},
		{State: 0, Action: Right, Next: 1},
		{State: 1, Action: Down, Next: 4},
		{State: 1, Action: Right, Next: 2},
		{State: 1, Action: Left, Next: 0},
		{State: 2, Action: Down, Next: 5},
		{State: 2, Action: Left, Next: 1},
		{State: 3, Action: Up, Next: 0},
		{State: 3, Action: Down, Next: 6},
		{State: 3, Action: Right, Next: 4},
		{State: 4, Action: Up, Next: 1},
		{State: 4, Action: Down, Next: 7},
		{State: 4, Action: Right, Next: 5},
		{State: 4, Action: Left, Next: 3},
		{State: 5, Action: Up, Next: 2},
		{State: 5, Action: Down, Next: 8},
		{State: 5, Action: Left, Next: 4},
		{State: 6, Action: Up, Next: 3},
		{State: 6, Action: Right, Next: 7},
		{State: 7, Action: Up, Next: 4},
		{State: 7, Action: Right, Next: 8},
		{State: 7, Action: Left, Next: 6},
		{State: 8, Action: Up, Next: 5},
		{State: 8, Action: Left, Next: 7},
	}, env.Transitions())
}

func TestGridWorld_Coordinates(t *testing.T) {
	w := GridWorld{Rows: 2, Cols: 4}

	assert.Equal(t, mdp.State(6), w.State(1, 2))
	r, c := w.ToCoordinates(6)
	assert.Equal(t, 1, r)
	assert.Equal(t, 2, c)
}

func TestActionName(t *testing.T) {
	assert.Equal(t, "up", ActionName(Up))
	assert.Equal(t, "left", ActionName(Left))
	assert.Equal(t, "action(7)", ActionName(7))
}

func TestPrinter_PrintQTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintQTable([]mdp.QEntry{
		{State: 0, Action: Down, Value: -1},
		{State: 0, Action: Right, Value: 1.5},
		{State: 2, Action: Left, Value: 0},
	})

	assert.Equal(t, "Q-Table:\n"+
		"State 0: down= -1.00 right=  1.50\n"+
		"State 2: left=  0.00\n", buf.String())
}

func TestPrinter_PrintTransitions(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintTransitions([]mdp.TransitionEntry{
		{State: 0, Action: Down, Next: 3},
		{State: 0, Action: Right, Next: 1},
		{State: 1, Action: Left, Next: 0},
	})

	assert.Equal(t, "Transitions:\n"+
		"State 0: down -> 3 right -> 1\n"+
		"State 1: left -> 0\n", buf.String())
}

func TestPrinter_PrintActionHistory(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintActionHistory([]mdp.Step{
		{State: 0, Action: Right},
		{State: 1, Action: Down},
	})

	assert.Equal(t, "Action History:\n"+
		"State: 0, Action: right\n"+
		"State: 1, Action: down\n", buf.String())
}

func TestPrinter_PrintPolicy(t *testing.T) {
	env := quietEnvironment()
	grid := GridWorld{Rows: 3, Cols: 3}
	grid.Wire(env)

	agent := mdp.NewAgent(0.1, 0.7, 0, env,
		mdp.WithAgentRand(mdp.NewRand(1)),
		mdp.WithAgentLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	agent.StartSession()
	agent.AddActionHistory(0, Right)
	agent.AddActionHistory(1, Right)
	agent.AddActionHistory(2, Down)
	agent.StopSession(100)

	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintPolicy(grid, agent, map[mdp.State]float64{5: 100, 4: -100})

	assert.Equal(t, ""+
		"|     >|     >|     v|\n"+
		"|     .|-100.00|100.00|\n"+
		"|     .|     .|     .|\n", buf.String())
}

func TestPrinter_PrintPath(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintPath([]mdp.State{0, 1, 2, 5})

	assert.Equal(t, "Greedy path: 0 1 2 5\n", buf.String())
}
