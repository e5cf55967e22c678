// Package fleet defines Fleet, Squadron, Ship, and GroundUnit — the
// mobile military entities of spec §3 — plus an effective-stat
// computation (ComputeEffectiveStats) layered on the config blueprint.
//
// The modifier-layering approach (never mutate a ship's base blueprint;
// always derive effective stats from blueprint + crippled-state + tech
// bonuses at read time) is adapted from the teacher's
// ships.ComputeEffectiveShipV2/ModifierStack pattern (SPEC_FULL.md §4.13).
package fleet

import (
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/ids"
)

// Status is a fleet's activity posture (spec §4.5).
type Status string

const (
	StatusActive     Status = "active"
	StatusReserve    Status = "reserve"
	StatusMothballed Status = "mothballed"
)

// SquadronState is the crippled/undamaged/destroyed state machine of the
// Combat Engine (spec §4.3 step 4).
type SquadronState string

const (
	StateUndamaged SquadronState = "undamaged"
	StateCrippled  SquadronState = "crippled"
	StateDestroyed SquadronState = "destroyed"
)

// Ship is a single hull. Stats are looked up by Class in GameConfig, never
// stored redundantly on the instance (spec §9: config is the single
// source of truth for blueprint data).
type Ship struct {
	ID       ids.ShipId      `bson:"id" json:"id"`
	Class    config.ShipClass `bson:"class" json:"class"`
	Crippled bool            `bson:"crippled" json:"crippled"`

	// Carrier is the SquadronId of the carrier this ship is embarked in as
	// a fighter, or ids.Invalid if this ship is not an embarked fighter
	// (I4: "Every embarked fighter references a carrier whose hangar
	// capacity is not exceeded").
	Carrier ids.SquadronId `bson:"carrier,omitempty" json:"carrier,omitempty"`

	// Cargo lists marines embarked aboard this ship if it is a spacelift
	// hull (ETAC). Empty for combat hulls.
	Cargo []ids.GroundUnitId `bson:"cargo,omitempty" json:"cargo,omitempty"`
}

// GroundUnit is an army or marine, garrisoned at a colony or embarked as
// cargo aboard a spacelift ship.
type GroundUnit struct {
	ID    ids.GroundUnitId       `bson:"id" json:"id"`
	Owner ids.HouseId            `bson:"owner" json:"owner"`
	Class config.GroundUnitClass `bson:"class" json:"class"`
}

// Squadron is the combat unit: a flagship plus escorts plus any embarked
// fighters, with derived command-cost consumption (I2) and combat state.
type Squadron struct {
	ID               ids.SquadronId `bson:"id" json:"id"`
	Flagship         Ship           `bson:"flagship" json:"flagship"`
	Escorts          []Ship         `bson:"escorts,omitempty" json:"escorts,omitempty"`
	EmbarkedFighters []Ship         `bson:"embarkedFighters,omitempty" json:"embarkedFighters,omitempty"`
	State            SquadronState  `bson:"state" json:"state"`
}

// CommandCostUsed sums the command cost of every escort, for I2
// enforcement against the flagship's command rating.
func (s *Squadron) CommandCostUsed(cfg *config.GameConfig) int {
	total := 0
	for _, e := range s.Escorts {
		if stats, ok := cfg.ShipStatsFor(e.Class); ok {
			total += stats.CommandCost
		}
	}
	return total
}

// WithinCommandCapacity reports whether I2 holds for this squadron: total
// escort command-cost <= flagship command-rating.
func (s *Squadron) WithinCommandCapacity(cfg *config.GameConfig) bool {
	flagStats, ok := cfg.ShipStatsFor(s.Flagship.Class)
	if !ok {
		return false
	}
	return s.CommandCostUsed(cfg) <= flagStats.CommandRating
}

// IsCapital reports whether this squadron counts against the capital cap
// (§4.10): a squadron is "capital" if its flagship has CR >= 7.
func (s *Squadron) IsCapital(cfg *config.GameConfig) bool {
	stats, ok := cfg.ShipStatsFor(s.Flagship.Class)
	return ok && stats.CommandRating >= 7
}

// HangarUsed sums embarked fighter count against the flagship's hangar
// capacity, for I4 enforcement.
func (s *Squadron) HangarUsed() int {
	return len(s.EmbarkedFighters)
}

// WithinHangarCapacity reports whether I4 holds: embarked fighters do not
// exceed the flagship's (plus any hangar-bearing escort's) capacity.
func (s *Squadron) WithinHangarCapacity(cfg *config.GameConfig) bool {
	capacity := 0
	if stats, ok := cfg.ShipStatsFor(s.Flagship.Class); ok {
		capacity += stats.HangarCapacity
	}
	for _, e := range s.Escorts {
		if stats, ok := cfg.ShipStatsFor(e.Class); ok {
			capacity += stats.HangarCapacity
		}
	}
	return s.HangarUsed() <= capacity
}

// EffectiveStats is the computed attack/defense/WEP for a ship instance,
// layering crippled-state and tech-field modifiers onto the config
// blueprint. Combat, capacity ranking (lowest-AS selection), and
// seizure-refund math do not read it; they use the config blueprint and
// build cost directly.
type EffectiveStats struct {
	Attack  int
	Defense int
	WEP     int
}

// ModifierSource tags a single contribution to an EffectiveStats
// computation, kept for audit/debugging parity with the teacher's
// ModifierStack (SPEC_FULL.md §4.13); the engine itself only needs the
// summed result, but components may inspect Sources when explaining a
// combat outcome.
type ModifierSource struct {
	Name         string
	AttackDelta  int
	DefenseDelta int
	WEPDelta     int
}

// ComputeEffectiveStats layers blueprint -> crippled penalty -> tech bonus,
// in that fixed order, and returns both the result and the per-source
// breakdown.
func ComputeEffectiveStats(ship Ship, cfg *config.GameConfig, techAttackDelta, techDefenseDelta, techWEPDelta int) (EffectiveStats, []ModifierSource) {
	base, ok := cfg.ShipStatsFor(ship.Class)
	if !ok {
		return EffectiveStats{}, nil
	}

	sources := []ModifierSource{{Name: "blueprint", AttackDelta: base.Attack, DefenseDelta: base.Defense, WEPDelta: base.WEP}}
	attack, defense, wep := base.Attack, base.Defense, base.WEP

	if ship.Crippled {
		cripAtk, cripDef := -attack/2, -defense/2
		attack += cripAtk
		defense += cripDef
		sources = append(sources, ModifierSource{Name: "crippled", AttackDelta: cripAtk, DefenseDelta: cripDef})
	}

	if techAttackDelta != 0 || techDefenseDelta != 0 || techWEPDelta != 0 {
		attack += techAttackDelta
		defense += techDefenseDelta
		wep += techWEPDelta
		sources = append(sources, ModifierSource{Name: "tech", AttackDelta: techAttackDelta, DefenseDelta: techDefenseDelta, WEPDelta: techWEPDelta})
	}

	if attack < 0 {
		attack = 0
	}
	if defense < 0 {
		defense = 0
	}
	return EffectiveStats{Attack: attack, Defense: defense, WEP: wep}, sources
}

// BuildCost sums the build cost of every ship in the squadron, used for
// salvage refunds (P3/P7, spec §4.5 Order 15) and capacity-seizure
// refunds (P3, §4.10).
func (s *Squadron) BuildCost(cfg *config.GameConfig) int64 {
	var total int64
	if stats, ok := cfg.ShipStatsFor(s.Flagship.Class); ok {
		total += int64(stats.BuildCostPC)
	}
	for _, e := range s.Escorts {
		if stats, ok := cfg.ShipStatsFor(e.Class); ok {
			total += int64(stats.BuildCostPC)
		}
	}
	return total
}

// Fleet is a mobile grouping of squadrons at a single system, under one
// activity posture.
type Fleet struct {
	ID       ids.FleetId    `bson:"id" json:"id"`
	Owner    ids.HouseId    `bson:"owner" json:"owner"`
	Location ids.SystemId   `bson:"location" json:"location"`
	Status   Status         `bson:"status" json:"status"`
	Squadrons []Squadron    `bson:"squadrons,omitempty" json:"squadrons,omitempty"`
	Spacelift []Ship        `bson:"spacelift,omitempty" json:"spacelift,omitempty"` // ETAC hulls w/ cargo
	ROE      int            `bson:"roe" json:"roe"`                                  // 0-10
	Mission  string         `bson:"mission,omitempty" json:"mission,omitempty"`
}

// TotalBuildCost sums every squadron's and spacelift ship's build cost —
// the basis for the Salvage refund formula (spec §4.5 Order 15, S5).
func (f *Fleet) TotalBuildCost(cfg *config.GameConfig) int64 {
	var total int64
	for i := range f.Squadrons {
		total += f.Squadrons[i].BuildCost(cfg)
	}
	for _, s := range f.Spacelift {
		if stats, ok := cfg.ShipStatsFor(s.Class); ok {
			total += int64(stats.BuildCostPC)
		}
	}
	return total
}

// IsEmpty reports whether the fleet has no combat-capable squadrons and
// no spacelift ships left — used to detect a fleet that should be
// removed from state after combat/salvage.
func (f *Fleet) IsEmpty() bool {
	for _, sq := range f.Squadrons {
		if sq.State != StateDestroyed {
			return false
		}
	}
	return len(f.Spacelift) == 0
}

// CapitalCount reports how many active (non-destroyed) squadrons in this
// fleet count as capital ships, for the §4.10 capacity table.
func (f *Fleet) CapitalCount(cfg *config.GameConfig) int {
	n := 0
	for i := range f.Squadrons {
		if f.Squadrons[i].State == StateDestroyed {
			continue
		}
		if f.Squadrons[i].IsCapital(cfg) {
			n++
		}
	}
	return n
}

// MarineCargoCount sums the marines carried aboard this fleet's spacelift
// ships — used by Invasion/Blitz order execution (§4.6) and P5's
// no-retreat-from-ground-combat check.
func (f *Fleet) MarineCargoCount() int {
	n := 0
	for _, s := range f.Spacelift {
		n += len(s.Cargo)
	}
	return n
}
