package mdp

// ChooseTransition is the epsilon-greedy policy. It explores through the
// environment when the table is empty, when state has no recorded values,
// or with probability epsilon; otherwise it exploits BestTransition.
func (a *Agent) ChooseTransition(state State) (Transition, error) {
	if len(a.q) == 0 || !a.q.HasEntries(state) || a.rng.Float64() < a.epsilon {
		return a.env.RandomTransition(state)
	}
	return a.BestTransition(state)
}

// BestTransition picks the recorded action with the greatest value at
// state, ties going to the lowest action id. The next state always comes
// from the environment; an action that is no longer wired yields
// InvalidState as Next rather than an error.
func (a *Agent) BestTransition(state State) (Transition, error) {
	action, err := a.q.Argmax(state)
	if err != nil {
		return Transition{Action: -1, Next: InvalidState}, err
	}

	next, _ := a.env.NextState(state, action)
	return Transition{Action: action, Next: next}, nil
}
