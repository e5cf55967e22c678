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
	"github.com/greenm01/ec4x/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGameStateForMaintenanceTests() *state.GameState {
	gs := state.New(threeSystemMap(), 3)
	gs.AddHouse(house.New(1, 1000))
	gs.AddHouse(house.New(2, 1000))
	return gs
}

func TestExecuteMovementAdvancesOneHopTowardMoveTarget(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	f := etacFleet(gs, 1, 1)
	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdMove, Target: 3}
	log := &events.Log{}

	executeMovement(gs, log, 1)

	assert.Equal(t, ids.SystemId(2), f.Location, "fleet should have moved exactly one hop toward system 3")
}

func TestExecuteMovementSeekHomeHeadsToNearestOwnedColony(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	gs.AddColony(&colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1})
	f := etacFleet(gs, 1, 3)
	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdSeekHome}
	log := &events.Log{}

	executeMovement(gs, log, 1)

	assert.Equal(t, ids.SystemId(2), f.Location)
}

func TestExecuteMovementSeekHomeHoldsWhenNoOwnedColonyReachable(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	f := etacFleet(gs, 1, 3)
	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdSeekHome}
	log := &events.Log{}

	executeMovement(gs, log, 1)

	assert.Equal(t, ids.SystemId(3), f.Location, "fleet should hold in place with no owned colony to seek")
}

func TestExecuteMovementPatrolHoldsWithoutInstalledRoute(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	f := etacFleet(gs, 1, 2)
	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdPatrol}
	log := &events.Log{}

	executeMovement(gs, log, 1)

	assert.Equal(t, ids.SystemId(2), f.Location)
}

func TestExecuteMovementPatrolCyclesAlongRoute(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	f := etacFleet(gs, 1, 1)
	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdPatrol}
	gs.StandingCommands[f.ID] = orders.StandingCommand{Fleet: f.ID, Kind: orders.StandingPatrolRoute, Route: []ids.SystemId{1, 2, 3}}
	log := &events.Log{}

	executeMovement(gs, log, 1)
	assert.Equal(t, ids.SystemId(2), f.Location)

	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdPatrol}
	executeMovement(gs, log, 2)
	assert.Equal(t, ids.SystemId(3), f.Location)

	gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdPatrol}
	executeMovement(gs, log, 3)
	assert.Equal(t, ids.SystemId(2), f.Location, "patrol route should wrap back toward the start")
}

func TestAdvanceConstructionQueueProducesPendingCommission(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1}
	c.ConstructionQueue = []colony.ConstructionProject{{Kind: colony.ProjectShip, Item: string(config.ClassFighter), TurnsRemaining: 1}}
	gs.AddColony(c)
	log := &events.Log{}

	advanceConstructionQueues(gs, log, 1)

	assert.Empty(t, c.ConstructionQueue)
	require.Len(t, gs.PendingCommissions, 1)
	assert.Equal(t, colony.ProjectShip, gs.PendingCommissions[0].Kind)
}

func TestAdvanceConstructionQueueKeepsUnfinishedProjects(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1}
	c.ConstructionQueue = []colony.ConstructionProject{{Kind: colony.ProjectShip, Item: string(config.ClassFighter), TurnsRemaining: 2}}
	gs.AddColony(c)
	log := &events.Log{}

	advanceConstructionQueues(gs, log, 1)

	require.Len(t, c.ConstructionQueue, 1)
	assert.Equal(t, 1, c.ConstructionQueue[0].TurnsRemaining)
	assert.Empty(t, gs.PendingCommissions)
}

func TestAdvanceConstructionQueueCompletesTerraformWithoutNumericEffect(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1}
	c.Terraform = &colony.TerraformProject{TargetClass: "temperate", TurnsRemaining: 1}
	gs.AddColony(c)
	log := &events.Log{}

	advanceConstructionQueues(gs, log, 1)

	assert.Nil(t, c.Terraform)
	found := false
	for _, e := range log.All() {
		if e.Kind == events.KindTerraformCompleted {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExecuteDiplomaticActionsRecordsRelationChange(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, DiplomaticActions: []orders.DiplomaticAction{{Kind: orders.ActionDeclareHostile, Target: 2}}},
	}
	log := &events.Log{}

	executeDiplomaticActions(gs, packets, log, 1)

	h1, _ := gs.House(1)
	assert.Equal(t, 1, len(log.All()))
	assert.Equal(t, events.KindDiplomaticRelationChanged, log.All()[0].Kind)
	_ = h1
}

func TestExecutePopulationTransfersMovesSoulsBetweenOwnedColonies(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	from := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1, Population: colony.Population{Souls: 10, Units: 10}}
	to := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 2, Population: colony.Population{Souls: 2, Units: 2}}
	gs.AddColony(from)
	gs.AddColony(to)
	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, PopulationTransfers: []orders.PopulationTransfer{{From: from.ID, To: to.ID, Amount: 5}}},
	}
	log := &events.Log{}

	executePopulationTransfers(gs, packets, log, 1)

	assert.Equal(t, int64(5), from.Population.Souls)
	assert.Equal(t, int64(7), to.Population.Souls)
}

func TestExecutePopulationTransfersRejectsInsufficientSouls(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	from := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1, Population: colony.Population{Souls: 2, Units: 2}}
	to := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 2}
	gs.AddColony(from)
	gs.AddColony(to)
	packets := map[ids.HouseId]orders.OrderPacket{
		1: {House: 1, PopulationTransfers: []orders.PopulationTransfer{{From: from.ID, To: to.ID, Amount: 5}}},
	}
	log := &events.Log{}

	executePopulationTransfers(gs, packets, log, 1)

	assert.Equal(t, int64(2), from.Population.Souls)
	assert.Equal(t, int64(0), to.Population.Souls)
}

func TestMaintenancePhaseIncrementsTurn(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	cfg := config.DefaultConfig()
	packets := map[ids.HouseId]orders.OrderPacket{}
	log := &events.Log{}
	startTurn := gs.Turn

	MaintenancePhase(gs, packets, cfg, log, gs.Turn)

	assert.Equal(t, startTurn+1, gs.Turn)
}

func TestAutoRepairQueuesCrippledSquadronAtDrydockColony(t *testing.T) {
	gs := newGameStateForMaintenanceTests()
	cfg := config.DefaultConfig()
	c := &colony.Colony{ID: gs.Counters.NewColony(), Owner: 1, System: 1, Drydocks: 1}
	gs.AddColony(c)
	f := etacFleet(gs, 1, 1)
	f.Squadrons[0].State = fleet.StateCrippled

	autoRepair(gs, c, cfg)

	require.Len(t, c.RepairQueue, 1)
	assert.Equal(t, f.Squadrons[0].ID, c.RepairQueue[0].TargetSquadron)

	// Running again should not double-queue the same squadron.
	autoRepair(gs, c, cfg)
	assert.Len(t, c.RepairQueue, 1)
}
