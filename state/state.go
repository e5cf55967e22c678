// Package state defines GameState, the engine's single root aggregate
// (spec §3), and the narrow mutator functions that keep its derived
// indices coherent (spec §9: "one small mutator function per write ...
// keeps index coherence centralized"). No other package reaches into
// GameState's maps directly for a write that touches more than one of
// them; it goes through a method here instead.
package state

import (
	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/starmap"
)

// Blockade records the resolved blockade controller at a system (spec §3
// "blockades: Map<SystemId, Blockade>", §4.1 step 3).
type Blockade struct {
	Controller ids.HouseId  `bson:"controller" json:"controller"`
	Fleet      ids.FleetId  `bson:"fleet" json:"fleet"`
	Turn       int32        `bson:"turn" json:"turn"`
}

// EffectKind discriminates an ongoing espionage effect (spec §4.7:
// "may create an OngoingEffect with turnsRemaining").
type EffectKind string

const (
	EffectDisinformation   EffectKind = "disinformation"
	EffectSabotageLow      EffectKind = "sabotageLow"
	EffectPsyopsCampaign   EffectKind = "psyopsCampaign"
	EffectEconomicManip    EffectKind = "economicManipulation"
)

// OngoingEffect is a timed espionage effect against a house (spec §3
// "ongoingEffects: seq<OngoingEffect>", §4.7).
type OngoingEffect struct {
	Kind           EffectKind  `bson:"kind" json:"kind"`
	Source         ids.HouseId `bson:"source" json:"source"` // saboteur, for PlantDisinformation's "subsequent intel" rule
	Target         ids.HouseId `bson:"target" json:"target"`
	TurnsRemaining int         `bson:"turnsRemaining" json:"turnsRemaining"`
}

// Advance ticks one turn off the effect's remaining duration, reporting
// whether it has now expired.
func (e *OngoingEffect) Advance() bool {
	if e.TurnsRemaining <= 0 {
		return true
	}
	e.TurnsRemaining--
	return e.TurnsRemaining <= 0
}

// ScoutLossEvent records a scouting fleet lost to detection, feeding the
// diplomatic-escalation path of spec §4.8/S6 ("seq<ScoutLossEvent> for
// diplomatic escalation").
type ScoutLossEvent struct {
	Victim   ids.HouseId  `bson:"victim" json:"victim"`
	Detector ids.HouseId  `bson:"detector" json:"detector"`
	System   ids.SystemId `bson:"system" json:"system"`
	Turn     int32        `bson:"turn" json:"turn"`
}

// CompletedProject is a construction/repair project finished during the
// prior Maintenance Phase, consumed by the next turn's Command Phase Part
// A commissioning step (spec §3 "pendingCommissions").
type CompletedProject struct {
	Colony         ids.ColonyId       `bson:"colony" json:"colony"`
	Kind           colony.ProjectKind `bson:"kind" json:"kind"`
	Item           string             `bson:"item,omitempty" json:"item,omitempty"`
	TargetSquadron ids.SquadronId     `bson:"targetSquadron,omitempty" json:"targetSquadron,omitempty"`
}

// CapacityCategory identifies which capacity cap a grace-period timer
// tracks (spec §4.10).
type CapacityCategory string

const (
	CategoryCapital        CapacityCategory = "capital"
	CategoryTotalSquadron  CapacityCategory = "totalSquadron"
	CategoryFighter        CapacityCategory = "fighter"
)

// GracePeriodTracker counts down the turns a house may remain over a
// capacity cap before forced divestiture triggers (spec §3
// "gracePeriodTimers: Map<HouseId, GracePeriodTracker>", §4.10).
type GracePeriodTracker struct {
	TurnsRemaining map[CapacityCategory]int `bson:"turnsRemaining" json:"turnsRemaining"`
}

// Start begins a grace timer for a category, using the
// configured grace length; it does not extend an already-running timer
// past its original length (no stacking of grace periods).
func (g *GracePeriodTracker) Start(cat CapacityCategory, turns int) {
	if g.TurnsRemaining == nil {
		g.TurnsRemaining = make(map[CapacityCategory]int)
	}
	if _, active := g.TurnsRemaining[cat]; !active {
		g.TurnsRemaining[cat] = turns
	}
}

// Active reports whether a grace timer is currently running for cat.
func (g *GracePeriodTracker) Active(cat CapacityCategory) bool {
	if g.TurnsRemaining == nil {
		return false
	}
	t, ok := g.TurnsRemaining[cat]
	return ok && t > 0
}

// Advance ticks every running timer down by one, floored at zero (spec
// §4.1 Income Phase step 9: "Advance all ... grace-period timers by 1").
// It does not delete an expired (zero) entry: Start only (re)arms a
// category whose entry is absent, so a zero left in place is what lets
// Active report "expired" rather than Start silently re-arming a fresh
// timer the very next turn a house is still over cap. Only the Enforce*
// callers delete an entry, once the house is actually back under cap.
func (g *GracePeriodTracker) Advance() {
	for cat, t := range g.TurnsRemaining {
		if t > 0 {
			g.TurnsRemaining[cat] = t - 1
		}
	}
}

// GameState is the engine's single root aggregate (spec §3). Every
// component receives *GameState during its phase step and mutates it only
// through the methods below, or through package-specific entities (House,
// Colony, Fleet) it has looked up by ID.
type GameState struct {
	Turn int32 `bson:"turn" json:"turn"`
	Seed int64 `bson:"seed" json:"seed"`

	StarMap *starmap.StarMap `bson:"starMap" json:"starMap"`

	Counters ids.Counters `bson:"counters" json:"counters"`

	Houses      map[ids.HouseId]*house.House           `bson:"houses" json:"houses"`
	Colonies    map[ids.ColonyId]*colony.Colony        `bson:"colonies" json:"colonies"`
	Fleets      map[ids.FleetId]*fleet.Fleet           `bson:"fleets" json:"fleets"`
	GroundUnits map[ids.GroundUnitId]*fleet.GroundUnit `bson:"groundUnits" json:"groundUnits"`

	// Indices, kept coherent exclusively through this package's mutators
	// (I5: "coloniesByOwner[h] is exactly the set of colony IDs with
	// owner == h").
	coloniesBySystem map[ids.SystemId]ids.ColonyId
	coloniesByOwner  map[ids.HouseId]map[ids.ColonyId]struct{}
	fleetsByLocation map[ids.SystemId]map[ids.FleetId]struct{}
	fleetsByOwner    map[ids.HouseId]map[ids.FleetId]struct{}

	FleetCommands    map[ids.FleetId]orders.FleetCommand    `bson:"fleetCommands" json:"fleetCommands"`
	StandingCommands map[ids.FleetId]orders.StandingCommand `bson:"standingCommands" json:"standingCommands"`

	Blockades map[ids.SystemId]Blockade `bson:"blockades" json:"blockades"`

	OngoingEffects     []OngoingEffect      `bson:"ongoingEffects" json:"ongoingEffects"`
	ScoutLossEvents    []ScoutLossEvent     `bson:"scoutLossEvents" json:"scoutLossEvents"`
	PendingCommissions []CompletedProject   `bson:"pendingCommissions" json:"pendingCommissions"`

	GracePeriodTimers map[ids.HouseId]*GracePeriodTracker `bson:"gracePeriodTimers" json:"gracePeriodTimers"`
}

// New builds an empty GameState bound to a star map and game seed, turn
// counter starting at 1 per spec §3.
func New(starMap *starmap.StarMap, seed int64) *GameState {
	return &GameState{
		Turn:    1,
		Seed:    seed,
		StarMap: starMap,

		Houses:      make(map[ids.HouseId]*house.House),
		Colonies:    make(map[ids.ColonyId]*colony.Colony),
		Fleets:      make(map[ids.FleetId]*fleet.Fleet),
		GroundUnits: make(map[ids.GroundUnitId]*fleet.GroundUnit),

		coloniesBySystem: make(map[ids.SystemId]ids.ColonyId),
		coloniesByOwner:  make(map[ids.HouseId]map[ids.ColonyId]struct{}),
		fleetsByLocation: make(map[ids.SystemId]map[ids.FleetId]struct{}),
		fleetsByOwner:    make(map[ids.HouseId]map[ids.FleetId]struct{}),

		FleetCommands:    make(map[ids.FleetId]orders.FleetCommand),
		StandingCommands: make(map[ids.FleetId]orders.StandingCommand),
		Blockades:        make(map[ids.SystemId]Blockade),
		GracePeriodTimers: make(map[ids.HouseId]*GracePeriodTracker),
	}
}

// AddHouse registers a house.
func (s *GameState) AddHouse(h *house.House) {
	s.Houses[h.ID] = h
}

// House looks up a house by ID, returning (nil, false) if absent rather
// than panicking.
func (s *GameState) House(id ids.HouseId) (*house.House, bool) {
	h, ok := s.Houses[id]
	return h, ok
}

// AddGroundUnit registers an army or marine unit.
func (s *GameState) AddGroundUnit(u *fleet.GroundUnit) {
	s.GroundUnits[u.ID] = u
}

// GroundUnit looks up a ground unit by ID, returning (nil, false) if
// absent rather than panicking.
func (s *GameState) GroundUnit(id ids.GroundUnitId) (*fleet.GroundUnit, bool) {
	u, ok := s.GroundUnits[id]
	return u, ok
}

// RemoveGroundUnit deletes a ground unit — used when marines are lost in
// a failed invasion/blitz (spec §4.6: "no retreat from ground combat").
func (s *GameState) RemoveGroundUnit(id ids.GroundUnitId) {
	delete(s.GroundUnits, id)
}

// AddColony registers a colony and updates coloniesBySystem/coloniesByOwner
// in the same step — the only entry point that should ever insert into
// s.Colonies.
func (s *GameState) AddColony(c *colony.Colony) {
	s.Colonies[c.ID] = c
	s.coloniesBySystem[c.System] = c.ID
	s.indexColonyByOwner(c.ID, c.Owner)
}

func (s *GameState) indexColonyByOwner(id ids.ColonyId, owner ids.HouseId) {
	set, ok := s.coloniesByOwner[owner]
	if !ok {
		set = make(map[ids.ColonyId]struct{})
		s.coloniesByOwner[owner] = set
	}
	set[id] = struct{}{}
}

// TransferColonyOwnership reassigns a colony's owner and fixes up
// coloniesByOwner in one step (used by invasion/blitz, spec §4.6) — never
// mutate colony.Owner directly, or the index drifts out of I5.
func (s *GameState) TransferColonyOwnership(id ids.ColonyId, newOwner ids.HouseId) bool {
	c, ok := s.Colonies[id]
	if !ok {
		return false
	}
	if set, ok := s.coloniesByOwner[c.Owner]; ok {
		delete(set, id)
	}
	c.Owner = newOwner
	s.indexColonyByOwner(id, newOwner)
	return true
}

// ColoniesByOwner returns the set of colony IDs owned by h. Returns an
// empty slice (not a panic) for a house with no colonies.
func (s *GameState) ColoniesByOwner(h ids.HouseId) []ids.ColonyId {
	set := s.coloniesByOwner[h]
	out := make([]ids.ColonyId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// ColonyBySystem returns the colony at a system, if any.
func (s *GameState) ColonyBySystem(sys ids.SystemId) (*colony.Colony, bool) {
	id, ok := s.coloniesBySystem[sys]
	if !ok {
		return nil, false
	}
	c, ok := s.Colonies[id]
	return c, ok
}

// AddFleet registers a fleet and indexes it by location and owner.
func (s *GameState) AddFleet(f *fleet.Fleet) {
	s.Fleets[f.ID] = f
	s.indexFleetLocation(f.ID, f.Location)
	s.indexFleetOwner(f.ID, f.Owner)
}

func (s *GameState) indexFleetLocation(id ids.FleetId, loc ids.SystemId) {
	set, ok := s.fleetsByLocation[loc]
	if !ok {
		set = make(map[ids.FleetId]struct{})
		s.fleetsByLocation[loc] = set
	}
	set[id] = struct{}{}
}

func (s *GameState) indexFleetOwner(id ids.FleetId, owner ids.HouseId) {
	set, ok := s.fleetsByOwner[owner]
	if !ok {
		set = make(map[ids.FleetId]struct{})
		s.fleetsByOwner[owner] = set
	}
	set[id] = struct{}{}
}

// MoveFleet relocates a fleet and fixes up fleetsByLocation in one step —
// the only way a fleet's Location should ever change (I1).
func (s *GameState) MoveFleet(id ids.FleetId, newLocation ids.SystemId) bool {
	f, ok := s.Fleets[id]
	if !ok {
		return false
	}
	if !s.StarMap.Exists(newLocation) {
		return false
	}
	if set, ok := s.fleetsByLocation[f.Location]; ok {
		delete(set, id)
	}
	f.Location = newLocation
	s.indexFleetLocation(id, newLocation)
	return true
}

// RemoveFleet deletes a fleet from every index and from fleetCommands
// (I7: "After a fleet is removed, no fleetCommands entry references it"),
// used by Salvage/destruction/absorption.
func (s *GameState) RemoveFleet(id ids.FleetId) {
	f, ok := s.Fleets[id]
	if !ok {
		return
	}
	if set, ok := s.fleetsByLocation[f.Location]; ok {
		delete(set, id)
	}
	if set, ok := s.fleetsByOwner[f.Owner]; ok {
		delete(set, id)
	}
	delete(s.Fleets, id)
	delete(s.FleetCommands, id)
	delete(s.StandingCommands, id)
}

// FleetsByLocation returns the fleet IDs currently at a system.
func (s *GameState) FleetsByLocation(sys ids.SystemId) []ids.FleetId {
	set := s.fleetsByLocation[sys]
	out := make([]ids.FleetId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// FleetsByOwner returns the fleet IDs owned by h.
func (s *GameState) FleetsByOwner(h ids.HouseId) []ids.FleetId {
	set := s.fleetsByOwner[h]
	out := make([]ids.FleetId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// HousesAt reports the distinct set of houses with a fleet present at sys
// — used by the Combat Engine to detect multi-house contention (spec
// §4.1 step 1: "all fleets at systems with >=2 houses present").
func (s *GameState) HousesAt(sys ids.SystemId) map[ids.HouseId]struct{} {
	out := make(map[ids.HouseId]struct{})
	for id := range s.fleetsByLocation[sys] {
		if f, ok := s.Fleets[id]; ok {
			out[f.Owner] = struct{}{}
		}
	}
	return out
}

// GraceTrackerFor returns (lazily creating) a house's grace-period
// tracker.
func (s *GameState) GraceTrackerFor(h ids.HouseId) *GracePeriodTracker {
	t, ok := s.GracePeriodTimers[h]
	if !ok {
		t = &GracePeriodTracker{}
		s.GracePeriodTimers[h] = t
	}
	return t
}

// AdvanceTimers ticks every ongoing effect and grace-period timer by one
// turn, dropping expired effects (spec §4.1 Income Phase step 9).
func (s *GameState) AdvanceTimers() {
	kept := s.OngoingEffects[:0]
	for i := range s.OngoingEffects {
		if !s.OngoingEffects[i].Advance() {
			kept = append(kept, s.OngoingEffects[i])
		}
	}
	s.OngoingEffects = kept

	for _, t := range s.GracePeriodTimers {
		t.Advance()
	}
}

// AddOngoingEffect appends a new timed espionage effect.
func (s *GameState) AddOngoingEffect(e OngoingEffect) {
	s.OngoingEffects = append(s.OngoingEffects, e)
}

// EffectsAgainst returns every currently active ongoing effect targeting
// h, e.g. for PlantDisinformation's intel-corruption check (spec §4.7).
func (s *GameState) EffectsAgainst(h ids.HouseId) []OngoingEffect {
	var out []OngoingEffect
	for _, e := range s.OngoingEffects {
		if e.Target == h {
			out = append(out, e)
		}
	}
	return out
}

// NextTurn increments the turn counter (spec §4.1 Phase 4: "turn counter
// increments").
func (s *GameState) NextTurn() {
	s.Turn++
}
