package techtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() Tree {
	return Tree{
		Field: FieldMilitary,
		Tiers: [][]Node{
			{
				{ID: "m1", RPCost: 10, Effect: StatMods{AttackDelta: 1}},
			},
			{
				{ID: "m2", RPCost: 20, Prereqs: []string{"m1"}, Effect: StatMods{AttackDelta: 2}},
			},
		},
	}
}

func TestUnlockRespectsPrereqsAndCost(t *testing.T) {
	tree := sampleTree()
	s := NewState(1, FieldMilitary)
	s.CreditRP(15)

	assert.False(t, s.Unlock(tree, "m2"), "prereq not met")
	assert.True(t, s.Unlock(tree, "m1"))
	assert.Equal(t, 5, s.AvailableRP)
	assert.Equal(t, 1, s.Level())

	assert.False(t, s.Unlock(tree, "m2"), "not enough RP yet")
	s.CreditRP(20)
	assert.True(t, s.Unlock(tree, "m2"))
	assert.Equal(t, 2, s.Level())
}

func TestUnlockIsIdempotentNoOp(t *testing.T) {
	tree := sampleTree()
	s := NewState(1, FieldMilitary)
	s.CreditRP(100)
	require.True(t, s.Unlock(tree, "m1"))
	assert.False(t, s.Unlock(tree, "m1"), "already unlocked -> no-op, not an error")
}

func TestRevokeDowngradesWithoutRefund(t *testing.T) {
	tree := sampleTree()
	s := NewState(1, FieldMilitary)
	s.CreditRP(10)
	require.True(t, s.Unlock(tree, "m1"))

	assert.True(t, s.Revoke("m1"))
	assert.Equal(t, 0, s.Level())
	assert.Equal(t, 10, s.SpentRP, "sabotage downgrade does not refund RP")
}

func TestAggregateEffectSumsUnlockedNodes(t *testing.T) {
	tree := sampleTree()
	s := NewState(1, FieldMilitary)
	s.CreditRP(30)
	require.True(t, s.Unlock(tree, "m1"))
	require.True(t, s.Unlock(tree, "m2"))

	eff := s.AggregateEffect(tree)
	assert.Equal(t, 3, eff.AttackDelta)
}
