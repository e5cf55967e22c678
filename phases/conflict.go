package phases

import (
	"sort"

	"github.com/greenm01/ec4x/combat"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/espionage"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/planetary"
	"github.com/greenm01/ec4x/resolve"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
)

// ConflictPhase executes the five sub-steps of spec §4.1 Phase 1, acting
// on packets the caller has already admitted (spec §4.2's admission
// check is the caller's responsibility, performed before RunTurn is
// invoked for this turn — RunTurn resolves Conflict Phase directly
// against its packets argument rather than re-reading it back out of
// gs.FleetCommands/StandingCommands, collapsing spec's literal "executes
// orders submitted on turn N-1" into a single call per turn). Command
// Phase Part C still records the admitted commands into
// gs.FleetCommands/StandingCommands for introspection and standing-order
// re-evaluation next turn. It returns, per house, the systems that
// house's fleet-based espionage or combat after-action revealed this
// turn — fed into the end-of-turn intelligence synthesis (spec §4.11's
// "visible fleets from scout reports and combat after-action").
func ConflictPhase(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, espionageTree techtree.Tree, log *events.Log, turn int32) (map[ids.HouseId][]ids.SystemId, []events.CombatReport) {
	scouted := make(map[ids.HouseId][]ids.SystemId)
	addScouted := func(h ids.HouseId, sys ids.SystemId) {
		scouted[h] = append(scouted[h], sys)
	}
	var reports []events.CombatReport

	detectedHouses := spaceCombat(gs, cfg, log, turn, &reports)
	orbitalCombat(gs, cfg, log, turn, detectedHouses, &reports)
	blockadeResolution(gs, packets, cfg, log, turn)
	planetaryCombat(gs, packets, cfg, log, turn, addScouted)
	espionageStep(gs, packets, cfg, espionageTree, log, turn, addScouted)

	return scouted, reports
}

// buildCombatSquadrons wraps every active squadron in a fleet list with
// the per-battle CombatSquadron tag the Combat Engine expects (spec §4.3;
// "Starbase as pseudo-squadron" design note handled by callers that need
// one, e.g. orbitalCombat).
func buildCombatSquadrons(fleets []*fleet.Fleet) []*combat.CombatSquadron {
	var out []*combat.CombatSquadron
	for _, f := range fleets {
		for i := range f.Squadrons {
			sq := &f.Squadrons[i]
			if sq.State == fleet.StateDestroyed {
				continue
			}
			out = append(out, &combat.CombatSquadron{
				House:    f.Owner,
				Squadron: sq,
				ROE:      f.ROE,
			})
		}
	}
	return out
}

// contestedSystems returns, in ascending order, every system currently
// hosting fleets from 2 or more distinct houses (spec §4.1 step 1: "all
// fleets at systems with >=2 houses present").
func contestedSystems(gs *state.GameState) []ids.SystemId {
	var out []ids.SystemId
	for sys := range gs.StarMap.Systems {
		if len(gs.HousesAt(sys)) >= 2 {
			out = append(out, sys)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func fleetsAt(gs *state.GameState, sys ids.SystemId) []*fleet.Fleet {
	var out []*fleet.Fleet
	fleetIDs := gs.FleetsByLocation(sys)
	sort.Slice(fleetIDs, func(i, j int) bool { return fleetIDs[i] < fleetIDs[j] })
	for _, id := range fleetIDs {
		if f, ok := gs.Fleets[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// spaceCombat resolves step 1 of Phase 1 at every contested system and
// returns the set of houses that had a squadron detected, for orbital
// combat's "receives space-combat detection state" requirement.
func spaceCombat(gs *state.GameState, cfg *config.GameConfig, log *events.Log, turn int32, reports *[]events.CombatReport) map[ids.HouseId]bool {
	detected := make(map[ids.HouseId]bool)
	for _, sys := range contestedSystems(gs) {
		squadrons := buildCombatSquadrons(fleetsAt(gs, sys))
		if len(squadrons) == 0 {
			continue
		}
		result := combat.Resolve(combat.BattleContext{
			System:    sys,
			TaskForces: squadrons,
			Seed:      gs.Seed,
			Turn:      turn,
			MaxRounds: cfg.Combat.MaxRounds,
		}, cfg)
		applyCombatResult(gs, result, sys, log, reports)
		for _, f := range squadrons {
			if f.Detected {
				detected[f.House] = true
			}
		}
	}
	return detected
}

// orbitalCombat resolves step 2: survivors of space combat against each
// defending house's reserve/mothballed fleets plus its colony starbases,
// synthesized as pseudo-squadrons per spec §9's "Starbase as
// pseudo-squadron" note — a transient value built for this combat only;
// the colony's Starbases count is never mutated here.
func orbitalCombat(gs *state.GameState, cfg *config.GameConfig, log *events.Log, turn int32, preDetected map[ids.HouseId]bool, reports *[]events.CombatReport) {
	for _, sys := range contestedSystems(gs) {
		forces := buildCombatSquadrons(fleetsAt(gs, sys))
		if c, ok := gs.ColonyBySystem(sys); ok {
			for i := 0; i < c.Starbases; i++ {
				forces = append(forces, &combat.CombatSquadron{
					House:      c.Owner,
					Squadron:   &fleet.Squadron{Flagship: fleet.Ship{Class: config.ClassCapital}, State: fleet.StateUndamaged},
					IsStarbase: true,
				})
			}
		}
		if len(forces) == 0 {
			continue
		}
		result := combat.Resolve(combat.BattleContext{
			System:              sys,
			TaskForces:          forces,
			Seed:                gs.Seed,
			Turn:                turn,
			MaxRounds:           cfg.Combat.MaxRounds,
			AllowStarbaseCombat: true,
			PreDetectedHouses:   preDetected,
		}, cfg)
		applyCombatResult(gs, result, sys, log, reports)
	}
}

// applyCombatResult removes destroyed fleets from the index and appends
// the resulting events, shared by both space and orbital combat. When the
// battle produced a victor or any losses, it also appends a CombatReport
// digest (spec §6: "seq<CombatReport> ... for UI summaries", S1).
func applyCombatResult(gs *state.GameState, result combat.CombatResult, sys ids.SystemId, log *events.Log, reports *[]events.CombatReport) {
	if result.HasVictor {
		log.Append(events.GameEvent{Kind: events.KindCombatConcluded, System: sys, House: result.Victor, IntAmount: int64(len(result.Eliminated))})
	}
	destroyedFleets := make(map[ids.FleetId]bool)
	lossesByHouse := make(map[ids.HouseId]int)
	for _, f := range result.Eliminated {
		if f.Squadron != nil {
			log.Append(events.GameEvent{Kind: events.KindSquadronDestroyed, System: sys, House: f.House, Squadron: f.Squadron.ID})
			lossesByHouse[f.House]++
		}
	}
	if result.HasVictor || len(lossesByHouse) > 0 {
		*reports = append(*reports, events.CombatReport{
			System: sys, Victor: result.Victor, HasVictor: result.HasVictor, LossesByHouse: lossesByHouse,
		})
	}

	// A squadron listed in result.Retreated carries no FleetId of its own
	// (CombatSquadron only embeds a *fleet.Squadron), so its owning fleet
	// is found by pointer identity against the squadron slots of every
	// fleet still at this system, then auto-assigned Seek-Home (spec
	// §4.5: "fleets listed in a CombatResult.retreated[] are auto-
	// assigned Seek-Home").
	for _, r := range result.Retreated {
		if r.Squadron == nil {
			continue
		}
		for _, f := range fleetsAt(gs, sys) {
			matched := false
			for i := range f.Squadrons {
				if &f.Squadrons[i] == r.Squadron {
					matched = true
					break
				}
			}
			if matched {
				gs.FleetCommands[f.ID] = orders.FleetCommand{Fleet: f.ID, Kind: orders.CmdSeekHome}
				break
			}
		}
	}

	for _, id := range gs.FleetsByLocation(sys) {
		f, ok := gs.Fleets[id]
		if !ok || f.IsEmpty() {
			destroyedFleets[id] = true
		}
	}
	for id := range destroyedFleets {
		if f, ok := gs.Fleets[id]; ok {
			log.Append(events.GameEvent{Kind: events.KindFleetDestroyed, System: sys, House: f.Owner, Fleet: id})
		}
		gs.RemoveFleet(id)
	}
}

// blockadeResolution resolves step 3: every house with a GuardPlanet
// fleet commanding a blockade at a system competes by fleet strength
// (sum of squadron attack), the resolve package picking a single
// controller per system (spec §4.1 step 3, §4.4).
func blockadeResolution(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, log *events.Log, turn int32) {
	type intent struct {
		house ids.HouseId
		fleet ids.FleetId
	}
	bySystem := make(map[ids.SystemId][]resolve.Intent[intent])
	for _, h := range sortedHouseIDs(gs) {
		for _, cmd := range packets[h].FleetCommands {
			if cmd.Kind != orders.CmdGuardPlanet {
				continue
			}
			f, ok := gs.Fleets[cmd.Fleet]
			if !ok || f.Owner != h {
				continue
			}
			strength := fleetAttackStrength(f, cfg)
			bySystem[f.Location] = append(bySystem[f.Location], resolve.Intent[intent]{
				Value:    intent{house: h, fleet: f.ID},
				Strength: float64(strength),
			})
		}
	}
	systemsWithBlockades := make(map[ids.SystemId]struct{}, len(bySystem))
	for sys := range bySystem {
		systemsWithBlockades[sys] = struct{}{}
	}
	for _, sys := range sortedSystemIDs(systemsWithBlockades) {
		outcome, ok := resolve.Resolve(bySystem[sys], gs.Seed, turn, int64(sys))
		if !ok {
			continue
		}
		gs.Blockades[sys] = state.Blockade{Controller: outcome.Winner.Value.house, Fleet: outcome.Winner.Value.fleet, Turn: turn}
		if c, ok := gs.ColonyBySystem(sys); ok && c.Owner != outcome.Winner.Value.house {
			c.Blockaded = true
			log.Append(events.GameEvent{Kind: events.KindBlockadeEstablished, System: sys, House: outcome.Winner.Value.house, Colony: c.ID})
		}
	}
}

func fleetAttackStrength(f *fleet.Fleet, cfg *config.GameConfig) int {
	total := 0
	for i := range f.Squadrons {
		if f.Squadrons[i].State == fleet.StateDestroyed {
			continue
		}
		stats, ok := cfg.ShipStatsFor(f.Squadrons[i].Flagship.Class)
		if ok {
			total += stats.Attack
		}
	}
	return total
}

// planetaryCombat resolves step 4: Bombard/Invade/Blitz orders against
// each target colony, in resolver-determined priority order so that
// later attackers face defenses already weakened by earlier ones (spec
// §4.1 step 4, §4.4).
func planetaryCombat(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, log *events.Log, turn int32, addScouted func(ids.HouseId, ids.SystemId)) {
	type attack struct {
		house   ids.HouseId
		kind    orders.FleetCommandKind
		fleet   ids.FleetId
	}
	bySystem := make(map[ids.SystemId][]resolve.Intent[attack])
	for _, h := range sortedHouseIDs(gs) {
		for _, cmd := range packets[h].FleetCommands {
			if cmd.Kind != orders.CmdBombard && cmd.Kind != orders.CmdInvade && cmd.Kind != orders.CmdBlitz {
				continue
			}
			f, ok := gs.Fleets[cmd.Fleet]
			if !ok || f.Owner != h {
				continue
			}
			strength := fleetAttackStrength(f, cfg)
			bySystem[cmd.Target] = append(bySystem[cmd.Target], resolve.Intent[attack]{
				Value:    attack{house: h, kind: cmd.Kind, fleet: f.ID},
				Strength: float64(strength),
			})
		}
	}

	lookup := func(id ids.GroundUnitId) (*fleet.GroundUnit, bool) { return gs.GroundUnit(id) }
	remove := func(id ids.GroundUnitId) { gs.RemoveGroundUnit(id) }

	systemsWithAttacks := make(map[ids.SystemId]struct{}, len(bySystem))
	for sys := range bySystem {
		systemsWithAttacks[sys] = struct{}{}
	}
	for _, sys := range sortedSystemIDs(systemsWithAttacks) {
		c, ok := gs.ColonyBySystem(sys)
		if !ok {
			continue
		}
		ordered := resolve.PriorityOrder(bySystem[sys], gs.Seed, turn, int64(sys))
		for _, in := range ordered {
			f, ok := gs.Fleets[in.Value.fleet]
			if !ok {
				continue
			}
			attackers := []*fleet.Fleet{f}
			addScouted(in.Value.house, sys)
			switch in.Value.kind {
			case orders.CmdBombard:
				result := planetary.Bombard(c, attackers, gs.Seed, turn, cfg, lookup)
				log.Append(events.GameEvent{Kind: events.KindColonyBombarded, System: sys, House: in.Value.house, Colony: c.ID, IntAmount: result.InfrastructureLoss})
			case orders.CmdInvade:
				result, failure := planetary.Invade(c, attackers, in.Value.house, gs.Seed, turn, cfg, remove, lookup)
				if failure != nil {
					log.Append(events.GameEvent{Kind: events.KindOrderFailed, System: sys, House: in.Value.house, Reason: failure.Reason})
					continue
				}
				if result.Success {
					gs.TransferColonyOwnership(c.ID, in.Value.house)
					log.Append(events.GameEvent{Kind: events.KindColonyCaptured, System: sys, House: in.Value.house, Colony: c.ID})
				} else {
					log.Append(events.GameEvent{Kind: events.KindConflictLost, System: sys, House: in.Value.house, Colony: c.ID})
				}
			case orders.CmdBlitz:
				result := planetary.Blitz(c, attackers, in.Value.house, gs.Seed, turn, cfg, remove, lookup)
				if result.Success {
					gs.TransferColonyOwnership(c.ID, in.Value.house)
					log.Append(events.GameEvent{Kind: events.KindColonyCaptured, System: sys, House: in.Value.house, Colony: c.ID, Reason: "blitz"})
				} else {
					log.Append(events.GameEvent{Kind: events.KindConflictLost, System: sys, House: in.Value.house, Colony: c.ID, Reason: "blitz"})
				}
			}
		}
	}
}

// espionageStep resolves step 5: fleet-based scouting followed by
// Space-Guild EBP operations (spec §4.1 step 5, §4.7).
func espionageStep(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, espionageTree techtree.Tree, log *events.Log, turn int32, addScouted func(ids.HouseId, ids.SystemId)) {
	bySystem := make(map[ids.SystemId][]espionage.FleetSpyOp)
	for _, h := range sortedHouseIDs(gs) {
		house, ok := gs.House(h)
		if !ok {
			continue
		}
		for _, cmd := range packets[h].FleetCommands {
			var kind espionage.FleetSpyKind
			switch cmd.Kind {
			case orders.CmdSpyPlanet:
				kind = espionage.SpyPlanet
			case orders.CmdSpySystem:
				kind = espionage.SpySystem
			case orders.CmdHackStarbase:
				kind = espionage.HackStarbase
			default:
				continue
			}
			bySystem[cmd.Target] = append(bySystem[cmd.Target], espionage.FleetSpyOp{
				House: h, Kind: kind, Target: cmd.Target, Prestige: house.Prestige,
			})
		}
	}
	systemsWithSpies := make(map[ids.SystemId]struct{}, len(bySystem))
	for sys := range bySystem {
		systemsWithSpies[sys] = struct{}{}
	}
	for _, sys := range sortedSystemIDs(systemsWithSpies) {
		reports := espionage.ResolveFleetSpies(bySystem[sys], gs.Seed, turn, sys)
		for _, r := range reports {
			addScouted(r.House, r.Target)
		}
	}

	for _, h := range sortedHouseIDs(gs) {
		attacker, ok := gs.House(h)
		if !ok {
			continue
		}
		for _, action := range packets[h].EspionageActions {
			target, ok := gs.House(action.Target)
			if !ok {
				continue
			}
			result := espionage.ResolveEBPAction(attacker, target, action, espionageTree, cfg.Combat.DetectionBaseChance, gs.Seed, turn, log)
			if result.Effect != nil {
				gs.AddOngoingEffect(*result.Effect)
			}
		}
	}
}
