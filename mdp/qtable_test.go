package mdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQTable_AbsentEntries(t *testing.T) {
	q := QTable{}

	assert.Zero(t, q.Value(3, up))
	assert.Zero(t, q.Max(3))
	assert.False(t, q.HasEntries(3))
	assert.Zero(t, q.Len())

	_, err := q.Argmax(3)
	assert.ErrorIs(t, err, ErrNoRecordedActions)
}

func TestQTable_NegativeMax(t *testing.T) {
	q := QTable{}
	q.Set(1, down, -10)
	q.Set(1, left, -3)

	assert.True(t, q.HasEntries(1))
	assert.Equal(t, -3.0, q.Max(1))
}

func TestQTable_ArgmaxTieGoesToLowestAction(t *testing.T) {
	q := QTable{}
	q.Set(0, left, 4)
	q.Set(0, right, 4)
	q.Set(0, up, 1)

	a, err := q.Argmax(0)
	require.NoError(t, err)
	assert.Equal(t, right, a)
}

func TestQTable_Entries(t *testing.T) {
	q := QTable{}
	q.Set(2, left, 0.5)
	q.Set(0, right, 1)
	q.Set(0, down, -1)

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []QEntry{
		{State: 0, Action: down, Value: -1},
		{State: 0, Action: right, Value: 1},
		{State: 2, Action: left, Value: 0.5},
	}, q.Entries())
}
