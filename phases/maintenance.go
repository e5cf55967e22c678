package phases

import (
	"sort"

	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/diplomacy"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/state"
)

// MaintenancePhase executes spec §4.1 Phase 4: fleet movement, construction
// and repair queue advancement, diplomatic action execution, population
// transfers, terraform advancement, and the turn counter increment.
func MaintenancePhase(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, log *events.Log, turn int32) {
	executeMovement(gs, log, turn)
	advanceConstructionQueues(gs, log, turn)
	executeDiplomaticActions(gs, packets, log, turn)
	executePopulationTransfers(gs, packets, log, turn)
	gs.NextTurn()
}

// executeMovement advances every fleet carrying a movement-class order one
// hop along its shortest path toward its destination (spec §4.5: Move,
// SeekHome, Patrol). No speed/hops-per-turn field exists on Fleet, so
// every fleet moves exactly one jump per turn regardless of class — the
// engine's grounded simplification of spec §4.5's movement execution.
func executeMovement(gs *state.GameState, log *events.Log, turn int32) {
	fleetIDs := make([]ids.FleetId, 0, len(gs.FleetCommands))
	for fid := range gs.FleetCommands {
		fleetIDs = append(fleetIDs, fid)
	}
	sort.Slice(fleetIDs, func(i, j int) bool { return fleetIDs[i] < fleetIDs[j] })

	for _, fid := range fleetIDs {
		cmd := gs.FleetCommands[fid]
		f, ok := gs.Fleets[fid]
		if !ok {
			continue
		}

		var dest ids.SystemId
		var hasDest bool
		switch cmd.Kind {
		case orders.CmdMove, orders.CmdColonize:
			dest, hasDest = cmd.Target, true
		case orders.CmdSeekHome:
			dest, hasDest = bfsNearestMatch(gs.StarMap, f.Location, func(sys ids.SystemId) bool {
				c, ok := gs.ColonyBySystem(sys)
				return ok && c.Owner == f.Owner
			})
		case orders.CmdPatrol:
			dest, hasDest = nextPatrolHop(gs, f)
		case orders.CmdRendezvous, orders.CmdJoinFleet:
			if target, ok := gs.Fleets[cmd.JoinTarget]; ok {
				dest, hasDest = target.Location, true
			}
		}
		if !hasDest || dest == f.Location {
			continue
		}

		path, ok := gs.StarMap.ShortestPath(f.Location, dest)
		if !ok || len(path) < 2 {
			continue
		}
		if gs.MoveFleet(fid, path[1]) {
			log.Append(events.GameEvent{Kind: events.KindFleetArrived, Turn: turn, House: f.Owner, Fleet: fid, System: path[1]})
		}
	}
}

// nextPatrolHop advances a fleet one step along its standing PatrolRoute,
// looping back to the start once the end is reached. A Patrol order with
// no installed route (spec §6 StandingPatrolRoute) holds in place.
func nextPatrolHop(gs *state.GameState, f *fleet.Fleet) (ids.SystemId, bool) {
	standing, ok := gs.StandingCommands[f.ID]
	if !ok || standing.Kind != orders.StandingPatrolRoute || len(standing.Route) == 0 {
		return ids.SystemId(0), false
	}
	for i, sys := range standing.Route {
		if sys == f.Location {
			return standing.Route[(i+1)%len(standing.Route)], true
		}
	}
	return standing.Route[0], true
}

// advanceConstructionQueues ticks every colony's construction and repair
// queue, and its terraform project if any, producing CompletedProjects
// for next turn's commissioning (spec §4.1 Phase 4: "construction/repair
// queue advancement (produces CompletedProjects consumed next turn)").
func advanceConstructionQueues(gs *state.GameState, log *events.Log, turn int32) {
	for _, c := range ownedSortedColonies(gs) {
		c.ConstructionQueue = advanceQueue(gs, c, c.ConstructionQueue)
		c.RepairQueue = advanceQueue(gs, c, c.RepairQueue)

		if c.Terraform != nil && c.Terraform.Advance() {
			log.Append(events.GameEvent{Kind: events.KindTerraformCompleted, Turn: turn, House: c.Owner, Colony: c.ID, StrPayload: c.Terraform.TargetClass})
			// No PlanetClass field exists on Colony to actually apply the
			// terraform target to (documented limitation, DESIGN.md) — the
			// project still completes and clears, but has no numeric effect.
			c.Terraform = nil
		}
	}
}

func advanceQueue(gs *state.GameState, c *colony.Colony, queue []colony.ConstructionProject) []colony.ConstructionProject {
	kept := queue[:0]
	for i := range queue {
		p := queue[i]
		if p.Advance() {
			gs.PendingCommissions = append(gs.PendingCommissions, state.CompletedProject{
				Colony: c.ID, Kind: p.Kind, Item: p.Item, TargetSquadron: p.TargetSquadron,
			})
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// executeDiplomaticActions applies each house's direct relation-setting
// actions (spec §4.1 Phase 4: "diplomatic action execution (pacts, wars,
// peace)"). Unlike the automatic-escalation paths (spy-scout detection,
// S6), a direct action may move a relation in either direction.
func executeDiplomaticActions(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, log *events.Log, turn int32) {
	for _, h := range sortedHouseIDs(gs) {
		hse, ok := gs.House(h)
		if !ok {
			continue
		}
		for _, action := range packets[h].DiplomaticActions {
			if _, ok := gs.House(action.Target); !ok {
				continue
			}
			var result diplomacy.TransitionResult
			switch action.Kind {
			case orders.ActionDeclareHostile:
				result = hse.Diplomacy.SetExplicit(action.Target, diplomacy.RelationHostile)
			case orders.ActionDeclareEnemy:
				result = hse.Diplomacy.SetExplicit(action.Target, diplomacy.RelationEnemy)
			case orders.ActionSetNeutral:
				result = hse.Diplomacy.SetExplicit(action.Target, diplomacy.RelationNeutral)
			default:
				continue
			}
			if result.Changed {
				log.Append(events.GameEvent{
					Kind: events.KindDiplomaticRelationChanged, Turn: turn, House: h, OtherHouse: action.Target,
					StrPayload: result.From.String() + "->" + result.To.String(),
				})
			}
		}
	}
}

// executePopulationTransfers moves souls/production units between two
// colonies owned by the same house (spec §6 PopulationTransfer).
func executePopulationTransfers(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, log *events.Log, turn int32) {
	for _, h := range sortedHouseIDs(gs) {
		for _, t := range packets[h].PopulationTransfers {
			from, ok := gs.Colonies[t.From]
			if !ok || from.Owner != h {
				continue
			}
			to, ok := gs.Colonies[t.To]
			if !ok || to.Owner != h {
				continue
			}
			if t.Amount <= 0 || from.Population.Souls < t.Amount {
				continue
			}
			from.Population.Souls -= t.Amount
			from.Population.Units -= t.Amount
			to.Population.Souls += t.Amount
			to.Population.Units += t.Amount
			log.Append(events.GameEvent{Kind: events.KindPopulationTransferred, Turn: turn, House: h, Colony: t.To, IntAmount: t.Amount})
		}
	}
}
