package phases

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

func threeSystemMap() *starmap.StarMap {
	m := starmap.New()
	m.AddSystem(starmap.System{ID: 1})
	m.AddSystem(starmap.System{ID: 2})
	m.AddSystem(starmap.System{ID: 3})
	m.AddLane(1, 2)
	m.AddLane(2, 3)
	return m
}

func newGameStateForCommandTests(seed int64) *state.GameState {
	gs := state.New(threeSystemMap(), seed)
	gs.AddHouse(house.New(1, 1000))
	gs.AddHouse(house.New(2, 1000))
	return gs
}

func etacFleet(gs *state.GameState, owner ids.HouseId, at ids.SystemId) *fleet.Fleet {
	ship := fleet.Ship{ID: gs.Counters.NewShip(), Class: config.ClassETAC}
	sq := fleet.Squadron{ID: gs.Counters.NewSquadron(), Flagship: ship, State: fleet.StateUndamaged}
	f := &fleet.Fleet{ID: gs.Counters.NewFleet(), Owner: owner, Location: at, Status: fleet.StatusActive, Squadrons: []fleet.Squadron{sq}}
	gs.AddFleet(f)
	return f
}

func TestResolveColonizationTiesFallToSeededCoinFlip(t *testing.T) {
	gs := newGameStateForCommandTests(42)
	cfg := config.DefaultConfig()
	f1 := etacFleet(gs, 1, 2)
	f2 := etacFleet(gs, 2, 2)

	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, FleetCommands: []orders.FleetCommand{{Fleet: f1.ID, Kind: orders.CmdColonize, Target: 2}}},
		2: {House: 2, FleetCommands: []orders.FleetCommand{{Fleet: f2.ID, Kind: orders.CmdColonize, Target: 2}}},
	}
	log := &events.Log{}

	resolveColonization(gs, packets, cfg, log, 1)

	c, ok := gs.ColonyBySystem(2)
	require.True(t, ok)
	assert.Contains(t, []ids.HouseId{1, 2}, c.Owner)

	// The losing house's fleet should have been rerouted toward the
	// nearest other uncolonized system.
	loser := ids.HouseId(1)
	if c.Owner == 1 {
		loser = 2
	}
	var loserFleet ids.FleetId
	if loser == 1 {
		loserFleet = f1.ID
	} else {
		loserFleet = f2.ID
	}
	cmd, ok := gs.FleetCommands[loserFleet]
	require.True(t, ok)
	assert.Equal(t, orders.CmdColonize, cmd.Kind)
	assert.NotEqual(t, ids.SystemId(2), cmd.Target)
}

func TestResolveColonizationSkipsFleetStillEnRoute(t *testing.T) {
	gs := newGameStateForCommandTests(7)
	cfg := config.DefaultConfig()
	f := etacFleet(gs, 1, 1)

	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, FleetCommands: []orders.FleetCommand{{Fleet: f.ID, Kind: orders.CmdColonize, Target: 3}}},
	}
	log := &events.Log{}

	resolveColonization(gs, packets, cfg, log, 1)

	_, ok := gs.ColonyBySystem(1)
	assert.False(t, ok, "fleet still en route to system 3 must not found a colony at its current system")
	_, ok = gs.ColonyBySystem(3)
	assert.False(t, ok)
}

func TestResolveColonizationSkipsAlreadyColonizedSystem(t *testing.T) {
	gs := newGameStateForCommandTests(7)
	cfg := config.DefaultConfig()
	gs.AddColony(&colony.Colony{ID: gs.Counters.NewColony(), Owner: 2, System: 2})
	f := etacFleet(gs, 1, 2)

	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, FleetCommands: []orders.FleetCommand{{Fleet: f.ID, Kind: orders.CmdColonize, Target: 2}}},
	}
	log := &events.Log{}

	resolveColonization(gs, packets, cfg, log, 1)

	c, ok := gs.ColonyBySystem(2)
	require.True(t, ok)
	assert.Equal(t, ids.HouseId(2), c.Owner, "pre-existing owner must not be overwritten")
}

func TestExecuteZeroTurnCommandsMergeFleets(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	src := etacFleet(gs, 1, 1)
	dst := etacFleet(gs, 1, 1)
	log := &events.Log{}

	cmds := []orders.ZeroTurnCommand{{Kind: orders.ZeroTurnMergeFleets, SourceFleet: src.ID, TargetFleet: dst.ID}}
	executeZeroTurnCommands(gs, cmds, 1, log, 1)

	assert.Len(t, dst.Squadrons, 2)
	_, ok := gs.Fleets[src.ID]
	assert.False(t, ok, "merged source fleet should be removed")
}

func TestExecuteZeroTurnCommandsDetachShips(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	f := etacFleet(gs, 1, 1)
	extraShip := fleet.Ship{ID: gs.Counters.NewShip(), Class: config.ClassETAC}
	extraSq := fleet.Squadron{ID: gs.Counters.NewSquadron(), Flagship: extraShip, State: fleet.StateUndamaged}
	f.Squadrons = append(f.Squadrons, extraSq)
	log := &events.Log{}

	cmds := []orders.ZeroTurnCommand{{Kind: orders.ZeroTurnDetachShips, SourceFleet: f.ID, Squadron: extraSq.ID}}
	executeZeroTurnCommands(gs, cmds, 1, log, 1)

	assert.Len(t, f.Squadrons, 1)
	found := false
	for _, other := range gs.Fleets {
		if other.ID != f.ID {
			for _, sq := range other.Squadrons {
				if sq.ID == extraSq.ID {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "detached squadron should now belong to a new fleet")
}

func TestExecuteZeroTurnCommandsRejectsUnownedSourceFleet(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	f := etacFleet(gs, 2, 1)
	log := &events.Log{}

	cmds := []orders.ZeroTurnCommand{{Kind: orders.ZeroTurnDetachShips, SourceFleet: f.ID, Squadron: f.Squadrons[0].ID}}
	executeZeroTurnCommands(gs, cmds, 1, log, 1)

	assert.Len(t, f.Squadrons, 1, "house 1 must not be able to mutate house 2's fleet")
}

func TestEnqueueBuildOrdersAndCommissionRoundTrip(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	cfg := config.DefaultConfig()
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1}
	gs.AddColony(c)
	log := &events.Log{}

	enqueueBuildOrders(gs, []orders.BuildOrder{{Colony: c.ID, Item: string(config.ClassFighter), Count: 1}}, 1, cfg, log, 1)
	require.Len(t, c.ConstructionQueue, 1)
	assert.Equal(t, colony.ProjectShip, c.ConstructionQueue[0].Kind)

	for !c.ConstructionQueue[0].Advance() {
		// drain remaining turns
	}
	gs.PendingCommissions = append(gs.PendingCommissions, state.CompletedProject{
		Colony: c.ID, Kind: c.ConstructionQueue[0].Kind, Item: c.ConstructionQueue[0].Item,
	})
	c.ConstructionQueue = nil

	before := len(gs.Fleets)
	commissionCompletedProjects(gs, cfg, log, 1)
	assert.Len(t, gs.Fleets, before+1, "commissioning a ship project should produce a new fleet")
}

func TestEnqueueBuildOrdersRejectsUnknownItem(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	cfg := config.DefaultConfig()
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1}
	gs.AddColony(c)
	log := &events.Log{}

	enqueueBuildOrders(gs, []orders.BuildOrder{{Colony: c.ID, Item: "not-a-real-class", Count: 1}}, 1, cfg, log, 1)
	assert.Empty(t, c.ConstructionQueue)
	assert.Equal(t, events.KindOrderRejected, log.All()[0].Kind)
}

func TestCreditResearchUnlocksGreedilyByCheapestNode(t *testing.T) {
	h := house.New(1, 0)
	tree := techtree.Tree{
		Field: techtree.FieldMilitary,
		Tiers: [][]techtree.Node{
			{
				{ID: "cheap", RPCost: 5},
				{ID: "expensive", RPCost: 50},
			},
		},
	}
	trees := map[techtree.Field]techtree.Tree{techtree.FieldMilitary: tree}
	log := &events.Log{}

	creditResearch(h, map[string]int{string(techtree.FieldMilitary): 10}, trees, log, 1)

	state := h.TechState(techtree.FieldMilitary)
	assert.True(t, state.HasUnlocked("cheap"))
	assert.False(t, state.HasUnlocked("expensive"))
	assert.Equal(t, 5, state.AvailableRP)
}

func TestInstallStandingOrdersRejectsUnownedFleet(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	f := etacFleet(gs, 2, 1)

	installStandingOrders(gs, []orders.StandingCommand{{Fleet: f.ID, Kind: orders.StandingPatrolRoute, Route: []ids.SystemId{1, 2}}}, 1)

	_, ok := gs.StandingCommands[f.ID]
	assert.False(t, ok)
}

func TestRecordFleetCommandsPreservesAutoRetreat(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	f := etacFleet(gs, 1, 1)
	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdSeekHome}

	recordFleetCommands(gs, []orders.FleetCommand{{Fleet: f.ID, Kind: orders.CmdMove, Target: 3}}, 1)

	assert.Equal(t, orders.CmdSeekHome, gs.FleetCommands[f.ID].Kind, "a same-turn auto-retreat must survive a recorded player order")
}

func TestApplyColonyManagementClampsTaxRateAndStartsTerraform(t *testing.T) {
	gs := newGameStateForCommandTests(1)
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1}
	gs.AddColony(c)
	log := &events.Log{}

	applyColonyManagement(gs, []orders.ColonyManagementAction{
		{Kind: orders.ManageSetTaxRate, Colony: c.ID, Value: 1.5},
		{Kind: orders.ManageStartTerraform, Colony: c.ID, TargetClass: "temperate"},
	}, 1, log, 1)

	assert.Equal(t, 1.0, c.TaxRate)
	require.NotNil(t, c.Terraform)
	assert.Equal(t, "temperate", c.Terraform.TargetClass)

	// A second StartTerraform while one is in progress must be rejected.
	applyColonyManagement(gs, []orders.ColonyManagementAction{
		{Kind: orders.ManageStartTerraform, Colony: c.ID, TargetClass: "arid"},
	}, 1, log, 1)
	assert.Equal(t, "temperate", c.Terraform.TargetClass)
}
