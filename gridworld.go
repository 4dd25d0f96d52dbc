package main

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/CodeStranger-Fred/qlearning/config"
	"github.com/CodeStranger-Fred/qlearning/mdp"
)

// Moves, in the order of config.ActionNames.
const (
	Up mdp.Action = iota
	Down
	Right
	Left
)

var arrows = map[mdp.Action]string{
	Up:    "^",
	Down:  "v",
	Right: ">",
	Left:  "<",
}

func ActionName(a mdp.Action) string {
	if a >= 0 && int(a) < len(config.ActionNames) {
		return config.ActionNames[a]
	}
	return fmt.Sprintf("action(%d)", a)
}

// GridWorld numbers cells row by row:
//
//	|0|1|2|
//	|3|4|5|
//	|6|7|8|
type GridWorld struct {
	Rows int
	Cols int
}

func (w GridWorld) State(r, c int) mdp.State {
	return mdp.State(r*w.Cols + c)
}

func (w GridWorld) ToCoordinates(s mdp.State) (int, int) {
	return int(s) / w.Cols, int(s) % w.Cols
}

// Wire connects every cell to each of its in-bounds neighbours.
func (w GridWorld) Wire(env *mdp.Environment) {
	moves := []struct {
		action mdp.Action
		dr, dc int
	}{
		{Up, -1, 0},
		{Down, 1, 0},
		{Right, 0, 1},
		{Left, 0, -1},
	}

	for r := 0; r < w.Rows; r++ {
		for c := 0; c < w.Cols; c++ {
			for _, m := range moves {
				r1, c1 := r+m.dr, c+m.dc
				if r1 < 0 || c1 < 0 || r1 >= w.Rows || c1 >= w.Cols {
					continue
				}
				env.SetTransition(w.State(r, c), m.action, w.State(r1, c1))
			}
		}
	}
}

// Printer renders environments and learned values to a terminal.
type Printer struct {
	out io.Writer
	au  aurora.Aurora
}

func NewPrinter(out io.Writer, colors bool) *Printer {
	return &Printer{out: out, au: aurora.NewAurora(colors)}
}

func (p *Printer) PrintTransitions(transitions []mdp.TransitionEntry) {
	fmt.Fprintln(p.out, p.au.Bold("Transitions:"))
	for i, t := range transitions {
		if i == 0 || transitions[i-1].State != t.State {
			if i > 0 {
				fmt.Fprintln(p.out)
			}
			fmt.Fprintf(p.out, "State %d:", t.State)
		}
		fmt.Fprintf(p.out, " %s -> %d", p.au.Blue(ActionName(t.Action)), t.Next)
	}
	if len(transitions) > 0 {
		fmt.Fprintln(p.out)
	}
}

func (p *Printer) PrintActionHistory(history []mdp.Step) {
	fmt.Fprintln(p.out, p.au.Bold("Action History:"))
	for _, s := range history {
		fmt.Fprintf(p.out, "State: %d, Action: %s\n", s.State, p.au.Blue(ActionName(s.Action)))
	}
}

func (p *Printer) PrintQTable(entries []mdp.QEntry) {
	fmt.Fprintln(p.out, p.au.Bold("Q-Table:"))
	for i, e := range entries {
		if i == 0 || entries[i-1].State != e.State {
			if i > 0 {
				fmt.Fprintln(p.out)
			}
			fmt.Fprintf(p.out, "State %d:", e.State)
		}
		fmt.Fprintf(p.out, " %s=%s", ActionName(e.Action), p.value(e.Value))
	}
	if len(entries) > 0 {
		fmt.Fprintln(p.out)
	}
}

// PrintPolicy draws the grid with the greedy move of every cell. Terminal
// cells show their reward, cells without learned values a dot.
func (p *Printer) PrintPolicy(w GridWorld, agent *mdp.Agent, terminals map[mdp.State]float64) {
	for r := 0; r < w.Rows; r++ {
		fmt.Fprint(p.out, "|")
		for c := 0; c < w.Cols; c++ {
			s := w.State(r, c)
			if reward, ok := terminals[s]; ok {
				fmt.Fprint(p.out, p.value(reward))
			} else if tr, err := agent.BestTransition(s); err == nil {
				fmt.Fprint(p.out, p.au.Green(fmt.Sprintf("%6s", arrows[tr.Action])))
			} else {
				fmt.Fprintf(p.out, "%6s", ".")
			}
			fmt.Fprint(p.out, "|")
		}
		fmt.Fprintln(p.out)
	}
}

func (p *Printer) PrintPath(path []mdp.State) {
	fmt.Fprint(p.out, p.au.Bold("Greedy path:"))
	for _, s := range path {
		fmt.Fprintf(p.out, " %d", s)
	}
	fmt.Fprintln(p.out)
}

func (p *Printer) value(v float64) aurora.Value {
	text := fmt.Sprintf("%6.2f", v)
	switch {
	case v > 0:
		return p.au.Green(text)
	case v < 0:
		return p.au.Red(text)
	}
	return p.au.White(text)
}
