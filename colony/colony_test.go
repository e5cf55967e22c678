package colony

import (
	"testing"

	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/ids"
	"github.com/stretchr/testify/assert"
)

func TestCanDockRequiresSpaceportOrShipyard(t *testing.T) {
	c := &Colony{}
	assert.False(t, c.CanDock())

	c.Spaceports = 1
	assert.True(t, c.CanDock())

	c.Spaceports = 0
	c.Shipyards = 1
	assert.True(t, c.CanDock())
}

func TestAllGroundBatteriesDestroyed(t *testing.T) {
	c := &Colony{GroundBatteries: 2}
	assert.False(t, c.AllGroundBatteriesDestroyed())
	c.GroundBatteries = 0
	assert.True(t, c.AllGroundBatteriesDestroyed())
}

func TestNetProductionAppliesBlockadePenalty(t *testing.T) {
	cfg := config.DefaultConfig()
	c := &Colony{Blockaded: true}
	assert.Equal(t, int64(50), c.NetProduction(100, cfg))

	c.Blockaded = false
	assert.Equal(t, int64(100), c.NetProduction(100, cfg))
}

func TestApplySeizurePenaltiesHalvesInfraAndZeroesDefenses(t *testing.T) {
	c := &Colony{
		Owner:            1,
		InfrastructureIU: 100,
		PlanetaryShield:  5,
		Spaceports:       2,
		Blockaded:        true,
	}
	c.ApplySeizurePenalties()

	assert.Equal(t, int64(50), c.InfrastructureIU)
	assert.Equal(t, 0, c.PlanetaryShield)
	assert.Equal(t, 0, c.Spaceports)
	assert.Equal(t, ids.HouseId(1), c.Owner, "ApplySeizurePenalties must not touch Owner; only state.GameState.TransferColonyOwnership may")
	assert.False(t, c.Blockaded)
}

func TestConstructionProjectAdvanceReportsCompletion(t *testing.T) {
	p := &ConstructionProject{Kind: ProjectShipyard, TurnsRemaining: 2}
	assert.False(t, p.Advance())
	assert.True(t, p.Advance())
	assert.True(t, p.Advance(), "already-complete project stays reported complete")
}

func TestGrossOutputNeverNegative(t *testing.T) {
	cfg := config.DefaultConfig()
	c := &Colony{InfrastructureIU: 100, TaxRate: 1000} // absurd tax rate
	assert.Equal(t, int64(0), c.GrossOutput(1.0, 1.0, cfg))
}
