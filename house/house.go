// Package house defines House, the per-player root entity of spec §3:
// treasury, prestige, per-field tech progress, diplomatic relations,
// espionage budget, and the per-turn tallies the Income/Maintenance
// phases populate.
//
// Shaped after the teacher's players.PlayerGameState (resource fields,
// IsAlive-style status flags, per-map denormalized state) generalized
// from a single Energy resource to treasury/prestige/EBP/CIP, and wired
// to techtree.State/diplomacy.Table instead of the teacher's raw
// bson.ObjectID slices.
package house

import (
	"github.com/greenm01/ec4x/diplomacy"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/techtree"
)

// Tallies counts per-turn espionage activity (spec §3: "per-turn tallies
// (espionage attempts, successes, losses)"), reset at the start of each
// turn's Command Phase processing.
type Tallies struct {
	EspionageAttempts int `bson:"espionageAttempts" json:"espionageAttempts"`
	EspionageSuccesses int `bson:"espionageSuccesses" json:"espionageSuccesses"`
	EspionageLosses    int `bson:"espionageLosses" json:"espionageLosses"`
}

// Reset zeroes every tally, called once per turn before order execution.
func (t *Tallies) Reset() {
	*t = Tallies{}
}

// House is one player's persistent state across the game (spec §3).
type House struct {
	ID ids.HouseId `bson:"id" json:"id"`

	TreasuryPP int64 `bson:"treasuryPp" json:"treasuryPp"`
	Prestige   int   `bson:"prestige" json:"prestige"`

	// Tech is this house's progress in each research field, keyed by
	// techtree.Field. Absent entries are treated as a fresh State by
	// TechState.
	Tech map[techtree.Field]*techtree.State `bson:"tech" json:"tech"`

	Diplomacy *diplomacy.Table `bson:"diplomacy" json:"diplomacy"`

	EBP int `bson:"ebp" json:"ebp"` // Espionage Budget Points, offensive
	CIP int `bson:"cip" json:"cip"` // Counter-Intelligence Points, defensive

	Eliminated bool `bson:"eliminated" json:"eliminated"`
	Dishonored bool `bson:"dishonored" json:"dishonored"` // not read by espionage priority, which ranks by prestige only

	Tallies Tallies `bson:"tallies" json:"tallies"`
}

// New creates a fresh house with starting treasury and one empty tech
// state per field, per the game-setup parameters an external collaborator
// would supply via config.GameConfig.Setup.
func New(id ids.HouseId, startingTreasuryPP int64) *House {
	h := &House{
		ID:         id,
		TreasuryPP: startingTreasuryPP,
		Tech:       make(map[techtree.Field]*techtree.State),
		Diplomacy:  diplomacy.NewTable(id),
	}
	for _, f := range []techtree.Field{
		techtree.FieldMilitary,
		techtree.FieldConstruction,
		techtree.FieldEconomy,
		techtree.FieldEspionage,
	} {
		h.Tech[f] = techtree.NewState(id, f)
	}
	return h
}

// TechState returns the house's progress in a field, lazily initializing
// one if absent rather than panicking on a house built without New.
func (h *House) TechState(field techtree.Field) *techtree.State {
	if h.Tech == nil {
		h.Tech = make(map[techtree.Field]*techtree.State)
	}
	s, ok := h.Tech[field]
	if !ok {
		s = techtree.NewState(h.ID, field)
		h.Tech[field] = s
	}
	return s
}

// CreditTreasury adds (or, if negative, deducts) PP from the house's
// treasury. Centralizing this write, rather than letting callers mutate
// TreasuryPP directly, keeps every credit/debit site consistent with the
// "one small mutator per write" discipline used across the engine.
func (h *House) CreditTreasury(amount int64) {
	h.TreasuryPP += amount
}

// DeductMaintenance debits the treasury by cost, clamping at zero and
// reporting the shortfall (spec §4.9: "If treasury goes negative during
// deduction, the shortfall is capped at zero and a MaintenanceShortfall
// prestige penalty is queued").
func (h *House) DeductMaintenance(cost int64) (shortfall int64) {
	remaining := h.TreasuryPP - cost
	if remaining < 0 {
		shortfall = -remaining
		h.TreasuryPP = 0
		return shortfall
	}
	h.TreasuryPP = remaining
	return 0
}

// CanAfford reports whether the house's treasury covers cost without
// going negative.
func (h *House) CanAfford(cost int64) bool {
	return h.TreasuryPP >= cost
}

// AwardPrestige adds (or, if negative, deducts) prestige points — the
// single mutator every combat/colonization/espionage/tax outcome routes
// through (spec §4.1 step 7, §4.9).
func (h *House) AwardPrestige(delta int) {
	h.Prestige += delta
}

// DebitEBP spends Espionage Budget Points for an offensive operation,
// reporting whether the house could afford it (spec §4.7 step 1: "Check
// affordability against the attacker's EBP pool; debit cost").
func (h *House) DebitEBP(cost int) bool {
	if h.EBP < cost {
		return false
	}
	h.EBP -= cost
	return true
}

// CreditEBP adds EBP, e.g. from the per-turn ebpInvestment order field.
func (h *House) CreditEBP(amount int) {
	if amount > 0 {
		h.EBP += amount
	}
}

// CreditCIP adds Counter-Intelligence Points from the per-turn
// cipInvestment order field.
func (h *House) CreditCIP(amount int) {
	if amount > 0 {
		h.CIP += amount
	}
}

// IsActive reports whether the house is still a live participant —
// neither eliminated nor otherwise removed from play.
func (h *House) IsActive() bool {
	return !h.Eliminated
}
