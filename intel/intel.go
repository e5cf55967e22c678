// Package intel implements the Intelligence Synthesizer of spec §4.11:
// the per-house fog-of-war view rebuilt once per turn, and the
// per-turn delta computed against the previous snapshot.
//
// There is no teacher analogue for this subsystem (the teacher tracks a
// single shared galaxy view, not one fogged view per player), so the
// View/Delta shape here is grounded directly in spec §4.11's bullet
// list, and its diffing style follows the same "narrow mutator,
// rebuild-or-incrementally-maintain index" discipline state.GameState
// uses for its own indices (spec §9).
package intel

import (
	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/rngseed"
	"github.com/greenm01/ec4x/state"
)

// ColonyObservation is one house's knowledge of a colony, possibly
// corrupted (spec §4.11: "estimated counts, not ground truth").
type ColonyObservation struct {
	ColonyId                  ids.ColonyId
	Owner                     ids.HouseId
	System                    ids.SystemId
	EstimatedInfrastructureIU int64
	LastSeenTurn              int32
}

// FleetObservation is one house's knowledge of a fleet last seen at a
// visible system.
type FleetObservation struct {
	FleetId       ids.FleetId
	Owner         ids.HouseId
	Location      ids.SystemId
	SquadronCount int
	LastSeenTurn  int32
}

// HouseTally is the public scalar summary of another house (spec §4.11:
// "prestige, colony counts from public leaderboard" — these are public
// information, not subject to visibility gating).
type HouseTally struct {
	Prestige    int
	ColonyCount int
}

// View is one house's accumulated fog-of-war snapshot. Visible systems
// only ever grow: once scouted, a system stays in the set even after the
// scout leaves (spec §4.11: "set of SystemIds last scouted + currently
// occupied"), and VisibleSystems keeps the last turn each was seen.
// Colony and fleet observations cover only systems visible this turn: an
// entity that drops out of view is removed, not kept with an old
// LastSeenTurn.
type View struct {
	Owner          ids.HouseId
	VisibleSystems map[ids.SystemId]int32 // system -> last-seen turn
	Colonies       map[ids.ColonyId]ColonyObservation
	Fleets         map[ids.FleetId]FleetObservation
	HouseTallies   map[ids.HouseId]HouseTally
}

// NewView creates an empty view for a house, e.g. on game start or on a
// house's elimination-then-reconnection edge case.
func NewView(owner ids.HouseId) *View {
	return &View{
		Owner:          owner,
		VisibleSystems: make(map[ids.SystemId]int32),
		Colonies:       make(map[ids.ColonyId]ColonyObservation),
		Fleets:         make(map[ids.FleetId]FleetObservation),
		HouseTallies:   make(map[ids.HouseId]HouseTally),
	}
}

// ChangeOp discriminates one delta entry's kind (spec §4.11: "add/update/
// remove operations per entity class").
type ChangeOp string

const (
	OpAdd    ChangeOp = "add"
	OpUpdate ChangeOp = "update"
	OpRemove ChangeOp = "remove"
)

// ColonyChange is one colony-class delta entry.
type ColonyChange struct {
	Op     ChangeOp
	Colony ColonyObservation
}

// FleetChange is one fleet-class delta entry.
type FleetChange struct {
	Op    ChangeOp
	Fleet FleetObservation
}

// TallyChange is one house-tally scalar diff.
type TallyChange struct {
	House          ids.HouseId
	PrestigeDelta  int
	ColonyCountDelta int
}

// Delta is the only artifact transmitted to a client between snapshots
// (spec §4.11: "this delta is the only thing transmitted to clients;
// full snapshots are reserved for reconnection").
type Delta struct {
	Turn           int32
	SystemsAdded   []ids.SystemId
	ColonyChanges  []ColonyChange
	FleetChanges   []FleetChange
	TallyChanges   []TallyChange
}

// corruptionFactor draws a deterministic ±20-40% multiplicative variance
// for PlantDisinformation-corrupted counts (spec §4.7/§4.11: corruption
// applies to "counts/magnitudes", never to discrete tech levels or
// policy values — those aren't represented in a View at all, so the
// constraint is satisfied by construction here).
func corruptionFactor(gameSeed int64, turn int32, target ids.HouseId) float64 {
	rng := rngseed.New(gameSeed, turn, rngseed.OpIntelCorruption, int64(target))
	magnitude := 0.2 + rng.Float64()*0.2
	if rng.Intn(2) == 0 {
		return 1 - magnitude
	}
	return 1 + magnitude
}

func corruptCount(v int64, factor float64) int64 {
	corrupted := float64(v) * factor
	if corrupted < 0 {
		return 0
	}
	return int64(corrupted)
}

// Synthesize rebuilds a house's view from current ground truth and
// returns the delta against the view's prior contents, mutating the view
// in place to become the new snapshot (spec §4.11: "after each phase,
// the synthesizer updates every house's fog-of-war view").
//
// scoutedThisTurn carries systems the house gained visibility into this
// turn from sources outside mere occupancy — fleet-based scouting
// reports (espionage.IntelligenceReport) and combat after-action, per
// spec §4.11's bullet list. disinformed reports whether an active
// EffectDisinformation targets this house, corrupting the estimated
// counts it records (spec §4.7: "subsequent intel ... is corrupted").
func Synthesize(view *View, gs *state.GameState, owner ids.HouseId, turn int32, gameSeed int64, scoutedThisTurn []ids.SystemId, disinformed bool) *Delta {
	delta := &Delta{Turn: turn}

	visible := make(map[ids.SystemId]struct{})
	for _, fid := range gs.FleetsByOwner(owner) {
		if f, ok := gs.Fleets[fid]; ok {
			visible[f.Location] = struct{}{}
		}
	}
	for _, cid := range gs.ColoniesByOwner(owner) {
		if c, ok := gs.Colonies[cid]; ok {
			visible[c.System] = struct{}{}
		}
	}
	for _, sys := range scoutedThisTurn {
		visible[sys] = struct{}{}
	}

	for sys := range visible {
		if _, known := view.VisibleSystems[sys]; !known {
			delta.SystemsAdded = append(delta.SystemsAdded, sys)
		}
		view.VisibleSystems[sys] = turn
	}

	var factor float64 = 1.0
	if disinformed {
		factor = corruptionFactor(gameSeed, turn, owner)
	}

	seenColonies := make(map[ids.ColonyId]struct{})
	for cid, c := range gs.Colonies {
		if _, isVisible := visible[c.System]; !isVisible {
			continue
		}
		seenColonies[cid] = struct{}{}
		obs := observeColony(c, factor, turn)
		prior, existed := view.Colonies[cid]
		view.Colonies[cid] = obs
		if !existed {
			delta.ColonyChanges = append(delta.ColonyChanges, ColonyChange{Op: OpAdd, Colony: obs})
		} else if colonyChanged(prior, obs) {
			delta.ColonyChanges = append(delta.ColonyChanges, ColonyChange{Op: OpUpdate, Colony: obs})
		}
	}
	for cid, prior := range view.Colonies {
		if _, stillSeen := seenColonies[cid]; !stillSeen {
			delete(view.Colonies, cid)
			delta.ColonyChanges = append(delta.ColonyChanges, ColonyChange{Op: OpRemove, Colony: prior})
		}
	}

	seenFleets := make(map[ids.FleetId]struct{})
	for fid, f := range gs.Fleets {
		if _, isVisible := visible[f.Location]; !isVisible {
			continue
		}
		seenFleets[fid] = struct{}{}
		obs := observeFleet(f, factor, turn)
		prior, existed := view.Fleets[fid]
		view.Fleets[fid] = obs
		if !existed {
			delta.FleetChanges = append(delta.FleetChanges, FleetChange{Op: OpAdd, Fleet: obs})
		} else if fleetChanged(prior, obs) {
			delta.FleetChanges = append(delta.FleetChanges, FleetChange{Op: OpUpdate, Fleet: obs})
		}
	}
	for fid, prior := range view.Fleets {
		if _, stillSeen := seenFleets[fid]; !stillSeen {
			delete(view.Fleets, fid)
			delta.FleetChanges = append(delta.FleetChanges, FleetChange{Op: OpRemove, Fleet: prior})
		}
	}

	for hid, h := range gs.Houses {
		tally := HouseTally{Prestige: h.Prestige, ColonyCount: len(gs.ColoniesByOwner(hid))}
		prior := view.HouseTallies[hid]
		if prior != tally {
			delta.TallyChanges = append(delta.TallyChanges, TallyChange{
				House:            hid,
				PrestigeDelta:    tally.Prestige - prior.Prestige,
				ColonyCountDelta: tally.ColonyCount - prior.ColonyCount,
			})
		}
		view.HouseTallies[hid] = tally
	}

	return delta
}

// colonyChanged reports whether a colony observation's substantive
// fields differ, ignoring LastSeenTurn — which advances on every
// Synthesize call regardless of whether anything was actually observed
// to change, and so must not by itself trigger an update entry.
func colonyChanged(a, b ColonyObservation) bool {
	a.LastSeenTurn, b.LastSeenTurn = 0, 0
	return a != b
}

// fleetChanged is colonyChanged's fleet-observation counterpart.
func fleetChanged(a, b FleetObservation) bool {
	a.LastSeenTurn, b.LastSeenTurn = 0, 0
	return a != b
}

func observeColony(c *colony.Colony, factor float64, turn int32) ColonyObservation {
	return ColonyObservation{
		ColonyId:                  c.ID,
		Owner:                     c.Owner,
		System:                    c.System,
		EstimatedInfrastructureIU: corruptCount(c.InfrastructureIU, factor),
		LastSeenTurn:              turn,
	}
}

func observeFleet(f *fleet.Fleet, factor float64, turn int32) FleetObservation {
	return FleetObservation{
		FleetId:       f.ID,
		Owner:         f.Owner,
		Location:      f.Location,
		SquadronCount: int(corruptCount(int64(len(f.Squadrons)), factor)),
		LastSeenTurn:  turn,
	}
}
