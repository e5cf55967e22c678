package engine

import (
	"testing"

	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/starmap"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSystemMap() *starmap.StarMap {
	m := starmap.New()
	m.AddSystem(starmap.System{ID: 1})
	m.AddSystem(starmap.System{ID: 2})
	m.AddLane(1, 2)
	return m
}

func newTestEngine() (*Engine, *state.GameState) {
	gs := state.New(twoSystemMap(), 99)
	gs.AddHouse(house.New(1, 1000))
	gs.AddHouse(house.New(2, 1000))
	cfg := config.DefaultConfig()
	trees := map[techtree.Field]techtree.Tree{}
	return New(gs, cfg, trees), gs
}

func TestResolveTurnAdvancesTurnCounter(t *testing.T) {
	e, gs := newTestEngine()
	startTurn := gs.Turn

	result, err := e.ResolveTurn(map[ids.HouseId]orders.OrderPacket{})

	require.NoError(t, err)
	assert.Equal(t, startTurn+1, gs.Turn)
	assert.Contains(t, result.Deltas, ids.HouseId(1))
	assert.Contains(t, result.Deltas, ids.HouseId(2))
}

func TestResolveTurnRejectsOrdersAgainstUnownedFleets(t *testing.T) {
	e, gs := newTestEngine()
	ship := fleet.Ship{ID: gs.Counters.NewShip(), Class: config.ClassETAC}
	sq := fleet.Squadron{ID: gs.Counters.NewSquadron(), Flagship: ship, State: fleet.StateUndamaged}
	f := &fleet.Fleet{ID: gs.Counters.NewFleet(), Owner: 2, Location: 1, Status: fleet.StatusActive, Squadrons: []fleet.Squadron{sq}}
	gs.AddFleet(f)

	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, FleetCommands: []orders.FleetCommand{{Fleet: f.ID, Kind: orders.CmdMove, Target: 2}}},
	}

	result, err := e.ResolveTurn(packets)

	require.NoError(t, err)
	assert.Equal(t, ids.SystemId(1), f.Location, "house 1 does not own this fleet, the move must be rejected before Maintenance runs")

	found := false
	for _, ev := range result.Events {
		if ev.Kind == events.KindOrderRejected {
			found = true
		}
	}
	assert.True(t, found, "ResolveTurn must surface admission rejections in its returned event log")
}

func TestResolveTurnAcceptsOrdersAgainstOwnedFleets(t *testing.T) {
	e, gs := newTestEngine()
	ship := fleet.Ship{ID: gs.Counters.NewShip(), Class: config.ClassETAC}
	sq := fleet.Squadron{ID: gs.Counters.NewSquadron(), Flagship: ship, State: fleet.StateUndamaged}
	f := &fleet.Fleet{ID: gs.Counters.NewFleet(), Owner: 1, Location: 1, Status: fleet.StatusActive, Squadrons: []fleet.Squadron{sq}}
	gs.AddFleet(f)

	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, FleetCommands: []orders.FleetCommand{{Fleet: f.ID, Kind: orders.CmdMove, Target: 2}}},
	}

	_, err := e.ResolveTurn(packets)

	require.NoError(t, err)
	assert.Equal(t, ids.SystemId(2), f.Location)
}

func TestResolveTurnLeavesOrdinaryClampsErrorFree(t *testing.T) {
	e, gs := newTestEngine()
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1, TaxRate: 0.5}
	gs.AddColony(c)

	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, ColonyManagement: []orders.ColonyManagementAction{
			{Kind: orders.ManageSetTaxRate, Colony: c.ID, Value: 999},
		}},
	}

	_, err := e.ResolveTurn(packets)
	require.NoError(t, err, "an ordinary clamp, not a genuine engine failure, must not produce an error")
	assert.LessOrEqual(t, c.TaxRate, 1.0)
}

func TestEngineStateAndStarMapAccessors(t *testing.T) {
	e, gs := newTestEngine()

	assert.Same(t, gs, e.State())
	assert.NotNil(t, e.StarMap())
	assert.True(t, e.StarMap().Exists(1))
}
