package diplomacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscalateNeverDowngrades(t *testing.T) {
	t1 := NewTable(1)
	res := t1.Escalate(2, RelationEnemy)
	assert.True(t, res.Changed)
	assert.Equal(t, RelationEnemy, t1.RelationWith(2))

	// A further escalate to Hostile must not demote the existing Enemy.
	res2 := t1.Escalate(2, RelationHostile)
	assert.False(t, res2.Changed)
	assert.Equal(t, RelationEnemy, t1.RelationWith(2))
}

func TestS6SpyDetectionEscalatesOneSidedly(t *testing.T) {
	h1 := NewTable(1)
	h2 := NewTable(2)

	res := h1.Escalate(2, RelationHostile)
	assert.True(t, res.Changed)
	assert.Equal(t, RelationNeutral, res.From)
	assert.Equal(t, RelationHostile, res.To)

	// H2's table toward H1 is untouched — escalation is per-relation (S6).
	assert.Equal(t, RelationNeutral, h2.RelationWith(1))
}

func TestSetExplicitCanDowngrade(t *testing.T) {
	t1 := NewTable(1)
	t1.SetExplicit(2, RelationEnemy)
	res := t1.SetExplicit(2, RelationNeutral)
	assert.True(t, res.Changed)
	assert.Equal(t, RelationNeutral, t1.RelationWith(2))
}

func TestAreEnemiesRequiresMutualHostilityOrEitherEnemy(t *testing.T) {
	a := NewTable(1)
	b := NewTable(2)

	assert.False(t, AreEnemies(a, b))

	a.SetExplicit(2, RelationHostile)
	assert.False(t, AreEnemies(a, b), "one-sided hostile is not enough")

	b.SetExplicit(1, RelationHostile)
	assert.True(t, AreEnemies(a, b), "mutual hostile permits combat")

	b.SetExplicit(1, RelationNeutral)
	a.SetExplicit(2, RelationEnemy)
	assert.True(t, AreEnemies(a, b), "either side at Enemy is enough")
}
