// Package espionage implements the two Conflict Phase intelligence
// pathways of spec §4.7: fleet-based scouting (SpyPlanet/SpySystem/
// HackStarbase) and Space-Guild EBP-funded covert actions.
//
// Fleet-based priority resolution reuses the resolve package's generic
// simultaneous resolver (spec §4.4), since competing spies at the same
// target are exactly the "strength ordering + deterministic tiebreak"
// shape that package already implements. EBP action resolution is new —
// grounded directly in spec §4.7's four-step per-action algorithm, which
// has no teacher analogue (the teacher has no espionage subsystem).
package espionage

import (
	"github.com/greenm01/ec4x/diplomacy"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/resolve"
	"github.com/greenm01/ec4x/rngseed"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
)

// FleetSpyKind is one of the three fleet-based scouting orders.
type FleetSpyKind string

const (
	SpyPlanet    FleetSpyKind = "SpyPlanet"
	SpySystem    FleetSpyKind = "SpySystem"
	HackStarbase FleetSpyKind = "HackStarbase"
)

// FleetSpyOp is one house's fleet-based scouting attempt against a target
// this turn.
type FleetSpyOp struct {
	House    ids.HouseId
	Kind     FleetSpyKind
	Target   ids.SystemId
	Prestige int // the operating house's prestige at order-admission time, spec §4.7: "prestige-ranked priority"
}

// IntelligenceReport is the artifact a successful fleet-based scout
// produces, attached to the operating house (spec §4.7).
type IntelligenceReport struct {
	House  ids.HouseId
	Kind   FleetSpyKind
	Target ids.SystemId
	Turn   int32
}

// ResolveFleetSpies orders competing scouting attempts at the same target
// by prestige (highest first, deterministic RNG tiebreak on equal
// prestige, per the resolve package's priority-order algorithm) and
// returns one IntelligenceReport per successful op, in priority order.
// Every op in the input succeeds — spec §4.7 only ranks *priority*
// between competitors, it does not cap how many of them land. The order
// of the returned reports is the only effect of priority here; nothing in
// this package interrupts a lower-priority spy.
func ResolveFleetSpies(ops []FleetSpyOp, gameSeed int64, turn int32, target ids.SystemId) []IntelligenceReport {
	if len(ops) == 0 {
		return nil
	}
	intents := make([]resolve.Intent[FleetSpyOp], len(ops))
	for i, op := range ops {
		intents[i] = resolve.Intent[FleetSpyOp]{Value: op, Strength: float64(op.Prestige)}
	}
	ordered := resolve.PriorityOrder(intents, gameSeed, turn, int64(target))

	reports := make([]IntelligenceReport, 0, len(ordered))
	for _, in := range ordered {
		reports = append(reports, IntelligenceReport{
			House:  in.Value.House,
			Kind:   in.Value.Kind,
			Target: in.Value.Target,
			Turn:   turn,
		})
	}
	return reports
}

// ActionCost is the EBP price of each Space-Guild operation (spec §4.7
// step 1). Costs scale with how disruptive/permanent the effect is.
var ActionCost = map[orders.EspionageActionKind]int{
	orders.EspionageTechTheft:           40,
	orders.EspionageSabotageLow:         15,
	orders.EspionageSabotageHigh:        35,
	orders.EspionageAssassination:       60,
	orders.EspionageEconomicManipulation: 25,
	orders.EspionageCyberAttack:         30,
	orders.EspionagePsyopsCampaign:      20,
	orders.EspionageIntelligenceTheft:   30,
	orders.EspionagePlantDisinformation: 25,
	orders.EspionageCounterIntelSweep:   15,
	orders.EspionageRecruitAgent:        50,
}

// effectDuration is how many turns a successful action's OngoingEffect
// lasts, for the kinds that create one (spec §4.7 step 3).
var effectDuration = map[orders.EspionageActionKind]int{
	orders.EspionageSabotageLow:         2,
	orders.EspionagePsyopsCampaign:      4,
	orders.EspionageEconomicManipulation: 3,
	orders.EspionagePlantDisinformation: 3,
}

// ongoingEffectKind maps an EBP action to the OngoingEffect it installs,
// for the subset of kinds that persist past the turn they succeed on.
func ongoingEffectKind(kind orders.EspionageActionKind) (state.EffectKind, bool) {
	switch kind {
	case orders.EspionageSabotageLow:
		return state.EffectSabotageLow, true
	case orders.EspionagePsyopsCampaign:
		return state.EffectPsyopsCampaign, true
	case orders.EspionageEconomicManipulation:
		return state.EffectEconomicManip, true
	case orders.EspionagePlantDisinformation:
		return state.EffectDisinformation, true
	default:
		return "", false
	}
}

// EBPResult reports the outcome of one Space-Guild action.
type EBPResult struct {
	Attempted bool
	Succeeded bool
	Detected  bool
	Effect    *state.OngoingEffect
}

// cicLevel derives the target's Counter-Intelligence Capability level
// from its espionage tech progress (spec glossary: "CIC — Counter-
// Intelligence Capability level (tech)").
func cicLevel(target *house.House, tree techtree.Tree) int {
	st := target.TechState(techtree.FieldEspionage)
	return st.Level() + st.AggregateEffect(tree).CICBonus
}

// ResolveEBPAction runs the four-step algorithm of spec §4.7 for one
// Space-Guild operation: affordability check, detection roll, effect
// application or detection penalty, and event emission.
func ResolveEBPAction(attacker, target *house.House, action orders.EspionageAction, espionageTree techtree.Tree, detectionBaseChance float64, gameSeed int64, turn int32, log *events.Log) EBPResult {
	cost, known := ActionCost[action.Kind]
	if !known {
		cost = 25
	}
	if !attacker.DebitEBP(cost) {
		return EBPResult{Attempted: false}
	}
	attacker.Tallies.EspionageAttempts++

	cic := cicLevel(target, espionageTree)
	rng := rngseed.New(gameSeed, turn, rngseed.OpEspionage, int64(action.Target))

	// Detection chance rises with the target's CIC level and CIP pool
	// (spec §4.7 step 2). A chance of 1.0 or more is certain detection,
	// skipping the roll entirely rather than being subject to the same
	// 0.95 ceiling that applies to merely high (but not certain) chances.
	detectionChance := detectionBaseChance + float64(cic)*0.03 + float64(target.CIP)*0.005
	var detected bool
	switch {
	case detectionChance >= 1.0:
		detected = true
	case detectionChance > 0.95:
		detected = rng.Float64() < 0.95
	default:
		detected = rng.Float64() < detectionChance
	}

	result := EBPResult{Attempted: true}

	if detected {
		result.Detected = true
		attacker.Tallies.EspionageLosses++
		attacker.AwardPrestige(-cicPenalty(action.Kind))
		if log != nil {
			log.Append(events.GameEvent{Kind: events.KindEspionageDetected, Turn: turn, House: attacker.ID, OtherHouse: target.ID, Reason: string(action.Kind)})
		}
		return result
	}

	result.Succeeded = true
	attacker.Tallies.EspionageSuccesses++
	attacker.AwardPrestige(prestigeAward(action.Kind))

	if kind, ok := ongoingEffectKind(action.Kind); ok {
		effect := state.OngoingEffect{
			Kind:           kind,
			Source:         attacker.ID,
			Target:         target.ID,
			TurnsRemaining: effectDuration[action.Kind],
		}
		result.Effect = &effect
	}

	if log != nil {
		log.Append(events.GameEvent{Kind: events.KindEspionageSuccess, Turn: turn, House: attacker.ID, OtherHouse: target.ID, Reason: string(action.Kind)})
	}
	return result
}

// prestigeAward is the prestige credited to the attacker on a successful
// action. Assassination and RecruitAgent are worth more than a routine
// sabotage (spec §4.7 step 3: "award attacker prestige per source").
func prestigeAward(kind orders.EspionageActionKind) int {
	switch kind {
	case orders.EspionageAssassination, orders.EspionageRecruitAgent:
		return 15
	default:
		return 5
	}
}

// cicPenalty is the prestige the attacker loses when detected. Higher-
// stakes actions carry a steeper penalty when caught.
func cicPenalty(kind orders.EspionageActionKind) int {
	switch kind {
	case orders.EspionageAssassination, orders.EspionageRecruitAgent:
		return 20
	default:
		return 8
	}
}

// EscalateOnDetection applies spec §4.8's automatic escalation rule:
// detecting a spy against you raises your relation toward the spy's
// house to at least Hostile, never demoting an existing Enemy relation
// (S6).
func EscalateOnDetection(defender *diplomacy.Table, attacker ids.HouseId) diplomacy.TransitionResult {
	return defender.Escalate(attacker, diplomacy.RelationHostile)
}

// CounterIntelSweep resolves the CounterIntelSweep action specially: it
// has no target-facing effect of its own, instead crediting the house's
// own CIP pool (spec §4.7's action list includes it among the Space-Guild
// operations, but by name it is defensive rather than offensive).
func CounterIntelSweep(h *house.House, cipGain int) {
	h.CreditCIP(cipGain)
}
