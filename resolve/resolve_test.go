package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEmptyIsNoOp(t *testing.T) {
	_, ok := Resolve([]Intent[int]{}, 1, 1, 1)
	assert.False(t, ok)
}

func TestResolvePicksStrictlyMaximal(t *testing.T) {
	intents := []Intent[string]{
		{Value: "H1", Strength: 10},
		{Value: "H2", Strength: 7},
	}
	outcome, ok := Resolve(intents, 1, 1, 42)
	require.True(t, ok)
	assert.Equal(t, "H1", outcome.Winner.Value)
	assert.False(t, outcome.WasTiebreak)
}

func TestResolveTiebreaksDeterministically(t *testing.T) {
	intents := []Intent[string]{
		{Value: "H1", Strength: 5},
		{Value: "H2", Strength: 5},
	}
	o1, ok1 := Resolve(intents, 12345, 7, 99)
	o2, ok2 := Resolve(intents, 12345, 7, 99)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.True(t, o1.WasTiebreak)
	assert.Equal(t, o1.Winner.Value, o2.Winner.Value, "identical seed/turn/target must break ties identically")
}

func TestDifferentTargetIDsCanTiebreakDifferently(t *testing.T) {
	intents := []Intent[string]{
		{Value: "H1", Strength: 5},
		{Value: "H2", Strength: 5},
	}
	seen := map[string]bool{}
	for targetID := int64(0); targetID < 20; targetID++ {
		o, ok := Resolve(intents, 12345, 7, targetID)
		require.True(t, ok)
		seen[o.Winner.Value] = true
	}
	assert.GreaterOrEqual(t, len(seen), 2)
}

func TestPriorityOrderCoversEveryIntentExactlyOnce(t *testing.T) {
	intents := []Intent[string]{
		{Value: "H1", Strength: 10},
		{Value: "H2", Strength: 10},
		{Value: "H3", Strength: 3},
	}
	order := PriorityOrder(intents, 1, 1, 100)
	require.Len(t, order, 3)
	assert.Equal(t, "H3", order[2].Value, "lowest strength must be last in priority order")

	seen := map[string]bool{}
	for _, in := range order {
		seen[in.Value] = true
	}
	assert.Len(t, seen, 3)
}
