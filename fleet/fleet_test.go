package fleet

import (
	"testing"

	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/ids"
	"github.com/stretchr/testify/assert"
)

func TestWithinCommandCapacity(t *testing.T) {
	cfg := config.DefaultConfig()
	sq := Squadron{
		Flagship: Ship{ID: 1, Class: config.ClassCapital}, // CR 12
		Escorts: []Ship{
			{ID: 2, Class: config.ClassFrigate}, // cost 2
			{ID: 3, Class: config.ClassFrigate}, // cost 2
		},
	}
	assert.True(t, sq.WithinCommandCapacity(cfg))
	assert.Equal(t, 4, sq.CommandCostUsed(cfg))

	// Piling on destroyers (cost 3 each) eventually exceeds CR 12.
	for i := 0; i < 5; i++ {
		sq.Escorts = append(sq.Escorts, Ship{ID: ids.ShipId(10 + i), Class: config.ClassDestroyer})
	}
	assert.False(t, sq.WithinCommandCapacity(cfg))
}

func TestWithinHangarCapacity(t *testing.T) {
	cfg := config.DefaultConfig()
	sq := Squadron{
		Flagship: Ship{ID: 1, Class: config.ClassCarrier}, // hangar 6
	}
	for i := 0; i < 6; i++ {
		sq.EmbarkedFighters = append(sq.EmbarkedFighters, Ship{ID: ids.ShipId(100 + i), Class: config.ClassFighter})
	}
	assert.True(t, sq.WithinHangarCapacity(cfg))

	sq.EmbarkedFighters = append(sq.EmbarkedFighters, Ship{ID: 200, Class: config.ClassFighter})
	assert.False(t, sq.WithinHangarCapacity(cfg))
}

func TestIsCapitalUsesCommandRatingThreshold(t *testing.T) {
	cfg := config.DefaultConfig()
	capital := Squadron{Flagship: Ship{Class: config.ClassCapital}}
	cruiser := Squadron{Flagship: Ship{Class: config.ClassCruiser}}
	frigate := Squadron{Flagship: Ship{Class: config.ClassFrigate}}

	assert.True(t, capital.IsCapital(cfg))
	assert.True(t, cruiser.IsCapital(cfg))
	assert.False(t, frigate.IsCapital(cfg))
}

func TestCrippledHalvesStats(t *testing.T) {
	cfg := config.DefaultConfig()
	full, _ := ComputeEffectiveStats(Ship{Class: config.ClassCruiser}, cfg, 0, 0, 0)
	crippled, _ := ComputeEffectiveStats(Ship{Class: config.ClassCruiser, Crippled: true}, cfg, 0, 0, 0)

	assert.Less(t, crippled.Attack, full.Attack)
	assert.Less(t, crippled.Defense, full.Defense)
}

func TestTechDeltaAppliesOnTopOfCrippled(t *testing.T) {
	cfg := config.DefaultConfig()
	stats, sources := ComputeEffectiveStats(Ship{Class: config.ClassCruiser, Crippled: true}, cfg, 3, 0, 0)
	assert.Equal(t, 3, len(sources))
	base, _ := cfg.ShipStatsFor(config.ClassCruiser)
	assert.Equal(t, base.Attack/2+3, stats.Attack)
}

func TestEffectiveStatsNeverNegative(t *testing.T) {
	cfg := config.DefaultConfig()
	stats, _ := ComputeEffectiveStats(Ship{Class: config.ClassScout, Crippled: true}, cfg, -100, -100, 0)
	assert.Equal(t, 0, stats.Attack)
	assert.Equal(t, 0, stats.Defense)
}

func TestUnknownClassReturnsZeroValueNoPanic(t *testing.T) {
	cfg := config.DefaultConfig()
	stats, sources := ComputeEffectiveStats(Ship{Class: "unknown"}, cfg, 0, 0, 0)
	assert.Equal(t, EffectiveStats{}, stats)
	assert.Nil(t, sources)
}

func TestTotalBuildCostSumsSquadronAndSpaceliftCosts(t *testing.T) {
	cfg := config.DefaultConfig()
	f := &Fleet{
		Squadrons: []Squadron{
			{Flagship: Ship{Class: config.ClassFrigate}},
		},
		Spacelift: []Ship{
			{Class: config.ClassETAC},
		},
	}
	frigate, _ := cfg.ShipStatsFor(config.ClassFrigate)
	etac, _ := cfg.ShipStatsFor(config.ClassETAC)
	assert.Equal(t, int64(frigate.BuildCostPC+etac.BuildCostPC), f.TotalBuildCost(cfg))
}

func TestIsEmptyAfterAllSquadronsDestroyed(t *testing.T) {
	f := &Fleet{Squadrons: []Squadron{{State: StateDestroyed}}}
	assert.True(t, f.IsEmpty())

	f.Spacelift = append(f.Spacelift, Ship{Class: config.ClassETAC})
	assert.False(t, f.IsEmpty())
}

func TestCapitalCountIgnoresDestroyedSquadrons(t *testing.T) {
	cfg := config.DefaultConfig()
	f := &Fleet{
		Squadrons: []Squadron{
			{Flagship: Ship{Class: config.ClassCapital}},
			{Flagship: Ship{Class: config.ClassCapital}, State: StateDestroyed},
			{Flagship: Ship{Class: config.ClassFrigate}},
		},
	}
	assert.Equal(t, 1, f.CapitalCount(cfg))
}

func TestMarineCargoCountSumsSpaceliftCargo(t *testing.T) {
	f := &Fleet{
		Spacelift: []Ship{
			{Cargo: []ids.GroundUnitId{1, 2}},
			{Cargo: []ids.GroundUnitId{3}},
		},
	}
	assert.Equal(t, 3, f.MarineCargoCount())
}
