// Package phases drives a single turn through the four ordered phases of
// spec §4.1 — Conflict, Income, Command, Maintenance — wiring combat,
// resolve, planetary, espionage, economy, capacity, intel, orders, state
// and events together. The teacher has no turn orchestrator of its own
// (it is a live-tick MMO, not a simultaneous-turn game), so this package
// is grounded directly in spec §4.1's ordered sub-step list rather than
// any teacher file; the packages it wires each carry their own teacher
// grounding.
//
// A phase either runs to completion and appends to the shared events.Log,
// or — on a genuine invariant violation — panics, to be caught by the
// engine package's single recover() boundary (spec §7: "EngineFailure ...
// Terminates the turn with an unrecoverable error"). Every per-order
// failure is handled locally: skip, emit OrderFailed, continue.
package phases

import (
	"sort"

	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/intel"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/starmap"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
)

// TurnResult is everything a turn resolution produces besides the
// mutated GameState itself (spec §6 "Outputs").
type TurnResult struct {
	Events        []events.GameEvent
	CombatReports []events.CombatReport
	Deltas        map[ids.HouseId]*intel.Delta
}

// sortedHouseIDs returns every registered house's ID in ascending order.
// Every place this package builds a slice from a Go map for deterministic
// downstream processing (resolve.Resolve/PriorityOrder's tiebreak is
// sensitive to input slice order, spec P9) must source it from here
// rather than ranging over the map directly.
func sortedHouseIDs(gs *state.GameState) []ids.HouseId {
	out := make([]ids.HouseId, 0, len(gs.Houses))
	for h := range gs.Houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedSystemIDs(m map[ids.SystemId]struct{}) []ids.SystemId {
	out := make([]ids.SystemId, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// bfsNearestMatch finds the nearest system to from (inclusive) satisfying
// match, breadth-first over the jump-lane graph. Lane adjacency lists are
// built once at map-init time and never reordered afterward, so this walk
// is deterministic across replays of the same map (spec §5). Returns
// (0, false) if no matching system is reachable.
func bfsNearestMatch(sm *starmap.StarMap, from ids.SystemId, match func(ids.SystemId) bool) (ids.SystemId, bool) {
	if match(from) {
		return from, true
	}
	visited := map[ids.SystemId]bool{from: true}
	queue := []ids.SystemId{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range sm.Neighbors(cur) {
			if visited[next] {
				continue
			}
			visited[next] = true
			if match(next) {
				return next, true
			}
			queue = append(queue, next)
		}
	}
	return ids.SystemId(0), false
}

// RunTurn resolves one complete turn: Conflict, Income, Command,
// Maintenance, in that order (spec §4.1), then synthesizes every house's
// intelligence view against the resulting state.
//
// packets carries this turn's already-admitted OrderPacket per house
// (spec §4.2 admission happens before this call); Command Phase Part C
// both executes against it directly and records it into gs.FleetCommands/
// StandingCommands for next turn's standing-order re-evaluation.
//
// Spec §4.11 says the synthesizer runs "after each phase"; this
// implementation synthesizes once, against the final post-Maintenance
// state, rather than four times against each intermediate state. Since
// GameState is held exclusively by the orchestrator for the whole turn
// and nothing observes intermediate phase boundaries externally (spec
// §5: "no suspension points within a phase... within a turn"), a single
// end-of-turn synthesis against the final state is observationally
// equivalent to resynthesizing after every phase and discarding all but
// the last view before transmission, while avoiding three wasted passes.
func RunTurn(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, techTrees map[techtree.Field]techtree.Tree, views map[ids.HouseId]*intel.View) TurnResult {
	log := &events.Log{}
	turn := gs.Turn

	scouted, combatReports := ConflictPhase(gs, packets, cfg, techTrees[techtree.FieldEspionage], log, turn)
	IncomePhase(gs, packets, cfg, log, turn)
	CommandPhase(gs, packets, cfg, techTrees, log, turn)
	MaintenancePhase(gs, packets, cfg, log, turn)

	deltas := make(map[ids.HouseId]*intel.Delta, len(views))
	for _, h := range sortedHouseIDs(gs) {
		view, ok := views[h]
		if !ok {
			view = intel.NewView(h)
			views[h] = view
		}
		disinformed := false
		for _, e := range gs.EffectsAgainst(h) {
			if e.Kind == state.EffectDisinformation {
				disinformed = true
				break
			}
		}
		deltas[h] = intel.Synthesize(view, gs, h, turn, gs.Seed, scouted[h], disinformed)
	}

	return TurnResult{Events: log.All(), CombatReports: combatReports, Deltas: deltas}
}
