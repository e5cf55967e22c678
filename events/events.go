// Package events defines GameEvent, the discriminated-union turn log spec
// §6/§9 calls for ("Polymorphism by discriminated union ... exhaustive
// match at every branch"). Every phase appends to a shared []GameEvent
// buffer rather than mutating state directly for observable outcomes.
package events

import "github.com/greenm01/ec4x/ids"

// Kind discriminates GameEvent variants. New variants must be matched
// exhaustively wherever events are consumed (e.g. intel synthesis,
// CombatReport assembly).
type Kind string

const (
	KindFleetDestroyed           Kind = "FleetDestroyed"
	KindFleetArrived              Kind = "FleetArrived"
	KindSquadronDestroyed         Kind = "SquadronDestroyed"
	KindSquadronCrippled          Kind = "SquadronCrippled"
	KindCombatConcluded           Kind = "CombatConcluded"
	KindColonyFounded             Kind = "ColonyFounded"
	KindColonyCaptured            Kind = "ColonyCaptured"
	KindColonyBombarded           Kind = "ColonyBombarded"
	KindColonyDepopulated         Kind = "ColonyDepopulated"
	KindConflictLost              Kind = "ConflictLost"
	KindBlockadeEstablished       Kind = "BlockadeEstablished"
	KindEspionageSuccess          Kind = "EspionageSuccess"
	KindEspionageDetected         Kind = "EspionageDetected"
	KindDiplomaticRelationChanged Kind = "DiplomaticRelationChanged"
	KindCapitalShipSeized         Kind = "CapitalShipSeized"
	KindSquadronDisbanded         Kind = "SquadronDisbanded"
	KindFighterDisbanded          Kind = "FighterDisbanded"
	KindPlanetBreakerScrapped     Kind = "PlanetBreakerScrapped"
	KindMaintenanceShortfall      Kind = "MaintenanceShortfall"
	KindOrderRejected             Kind = "OrderRejected"
	KindOrderFailed               Kind = "OrderFailed"
	KindOrderCompleted             Kind = "OrderCompleted"
	KindOrderAborted              Kind = "OrderAborted"
	KindHouseEliminated            Kind = "HouseEliminated"
	KindVictory                   Kind = "Victory"
	KindProjectCompleted          Kind = "ProjectCompleted"
	KindTechUnlocked              Kind = "TechUnlocked"
	KindTerraformCompleted        Kind = "TerraformCompleted"
	KindPopulationTransferred     Kind = "PopulationTransferred"
)

// GameEvent is one entry in the per-turn log. Payload fields are a union;
// only the ones relevant to Kind are populated. IDs are zero (ids.Invalid)
// when not applicable.
type GameEvent struct {
	Kind Kind `bson:"kind" json:"kind"`
	Turn int32 `bson:"turn" json:"turn"`

	House   ids.HouseId      `bson:"house,omitempty" json:"house,omitempty"`
	OtherHouse ids.HouseId   `bson:"otherHouse,omitempty" json:"otherHouse,omitempty"`
	System  ids.SystemId     `bson:"system,omitempty" json:"system,omitempty"`
	Colony  ids.ColonyId     `bson:"colony,omitempty" json:"colony,omitempty"`
	Fleet   ids.FleetId      `bson:"fleet,omitempty" json:"fleet,omitempty"`
	Squadron ids.SquadronId  `bson:"squadron,omitempty" json:"squadron,omitempty"`

	Reason string `bson:"reason,omitempty" json:"reason,omitempty"`

	// IntAmount carries scalar payloads: prestige delta, PP amount, excess
	// count, etc. Its meaning is defined per Kind.
	IntAmount int64 `bson:"intAmount,omitempty" json:"intAmount,omitempty"`

	// StrPayload carries a secondary descriptive string, e.g. an old/new
	// diplomatic state pair rendered as "Neutral->Hostile".
	StrPayload string `bson:"strPayload,omitempty" json:"strPayload,omitempty"`
}

// CombatReport summarizes one resolved battle for UI/after-action
// consumers (spec §6: "seq<CombatReport> (attacker/defender losses,
// victor) for UI summaries"). Unlike GameEvent, which records individual
// occurrences for the turn log, a CombatReport aggregates one full battle
// at one system into a single digest.
type CombatReport struct {
	System        ids.SystemId        `bson:"system" json:"system"`
	Victor        ids.HouseId         `bson:"victor,omitempty" json:"victor,omitempty"`
	HasVictor     bool                `bson:"hasVictor" json:"hasVictor"`
	LossesByHouse map[ids.HouseId]int `bson:"lossesByHouse" json:"lossesByHouse"`
}

// Log is an append-only turn-event buffer shared across phases.
type Log struct {
	events []GameEvent
}

// Append records an event.
func (l *Log) Append(e GameEvent) {
	l.events = append(l.events, e)
}

// All returns the recorded events in emission order. The returned slice
// must not be mutated by the caller.
func (l *Log) All() []GameEvent {
	return l.events
}

// Len reports how many events have been recorded so far.
func (l *Log) Len() int {
	return len(l.events)
}
