// Package orders defines OrderPacket and its constituent order types
// (spec §6), plus the two-stage admission/execution validation discipline
// of spec §4.2. Admit (admission.go) runs the synchronous ownership check
// of Command Phase Part B against a whole packet at once; each phase that
// later executes an admitted order still re-checks ownership and current
// state itself, so a late invalidation (the referenced fleet was
// destroyed in Conflict Phase, say) fails that one order locally instead
// of panicking.
package orders

import "github.com/greenm01/ec4x/ids"

// FleetCommandKind is one of the 20 operational order types (spec §6).
type FleetCommandKind string

const (
	CmdHold          FleetCommandKind = "Hold"
	CmdMove          FleetCommandKind = "Move"
	CmdSeekHome      FleetCommandKind = "SeekHome"
	CmdPatrol        FleetCommandKind = "Patrol"
	CmdGuardStarbase FleetCommandKind = "GuardStarbase"
	CmdGuardPlanet   FleetCommandKind = "GuardPlanet" // Guard/Blockade; kept distinct from GuardStarbase, see SPEC_FULL.md open-question resolution
	CmdBombard       FleetCommandKind = "Bombard"
	CmdInvade        FleetCommandKind = "Invade"
	CmdBlitz         FleetCommandKind = "Blitz"
	CmdSpyPlanet     FleetCommandKind = "SpyPlanet"
	CmdHackStarbase  FleetCommandKind = "HackStarbase"
	CmdSpySystem     FleetCommandKind = "SpySystem"
	CmdColonize      FleetCommandKind = "Colonize"
	CmdJoinFleet     FleetCommandKind = "JoinFleet"
	CmdRendezvous    FleetCommandKind = "Rendezvous"
	CmdSalvage       FleetCommandKind = "Salvage"
	CmdReserve       FleetCommandKind = "Reserve"
	CmdMothball      FleetCommandKind = "Mothball"
	CmdReactivate    FleetCommandKind = "Reactivate"
	CmdView          FleetCommandKind = "View"
)

// FleetCommand is this turn's active order for one fleet (spec §3
// "fleetCommands: Map<FleetId, FleetCommand>").
type FleetCommand struct {
	Fleet  ids.FleetId      `bson:"fleet" json:"fleet"`
	Kind   FleetCommandKind `bson:"kind" json:"kind"`
	Target ids.SystemId     `bson:"target,omitempty" json:"target,omitempty"` // Move/SeekHome/Patrol/Bombard/Invade/Blitz/Colonize/Spy*
	JoinTarget ids.FleetId  `bson:"joinTarget,omitempty" json:"joinTarget,omitempty"` // JoinFleet/Rendezvous
	ROE    int              `bson:"roe,omitempty" json:"roe,omitempty"`
}

// ZeroTurnKind is one of the 7 administrative ops that execute
// synchronously in Command Phase Part B (spec §6).
type ZeroTurnKind string

const (
	ZeroTurnDetachShips               ZeroTurnKind = "DetachShips"
	ZeroTurnTransferShips             ZeroTurnKind = "TransferShips"
	ZeroTurnMergeFleets               ZeroTurnKind = "MergeFleets"
	ZeroTurnLoadCargo                 ZeroTurnKind = "LoadCargo"
	ZeroTurnUnloadCargo               ZeroTurnKind = "UnloadCargo"
	ZeroTurnTransferShipBetweenSquadrons ZeroTurnKind = "TransferShipBetweenSquadrons"
	ZeroTurnAssignSquadronToFleet     ZeroTurnKind = "AssignSquadronToFleet"
)

// ZeroTurnCommand is one administrative op submitted this turn.
type ZeroTurnCommand struct {
	Kind         ZeroTurnKind   `bson:"kind" json:"kind"`
	SourceFleet  ids.FleetId    `bson:"sourceFleet" json:"sourceFleet"`
	TargetFleet  ids.FleetId    `bson:"targetFleet,omitempty" json:"targetFleet,omitempty"`
	Squadron     ids.SquadronId `bson:"squadron,omitempty" json:"squadron,omitempty"`
	Ship         ids.ShipId     `bson:"ship,omitempty" json:"ship,omitempty"`
	GroundUnit   ids.GroundUnitId `bson:"groundUnit,omitempty" json:"groundUnit,omitempty"`
}

// StandingKind is one of the 9 persistent directives (spec §6).
type StandingKind string

const (
	StandingNone          StandingKind = "None"
	StandingPatrolRoute   StandingKind = "PatrolRoute"
	StandingDefendSystem  StandingKind = "DefendSystem"
	StandingGuardColony   StandingKind = "GuardColony"
	StandingAutoColonize  StandingKind = "AutoColonize"
	StandingAutoReinforce StandingKind = "AutoReinforce"
	StandingAutoRepair    StandingKind = "AutoRepair"
	StandingAutoEvade     StandingKind = "AutoEvade"
	StandingBlockadeTarget StandingKind = "BlockadeTarget"
)

// StandingCommand is a fleet's persistent directive, re-evaluated every
// turn until replaced (spec §3 "standingCommands: Map<FleetId,
// StandingCommand>").
type StandingCommand struct {
	Fleet ids.FleetId  `bson:"fleet" json:"fleet"`
	Kind  StandingKind `bson:"kind" json:"kind"`
	Route []ids.SystemId `bson:"route,omitempty" json:"route,omitempty"` // PatrolRoute
}

// BuildOrder queues a ship, facility, or ground unit at a colony's
// shipyard/drydock (consumed into a CompletedProject on completion).
type BuildOrder struct {
	Colony ids.ColonyId `bson:"colony" json:"colony"`
	Item   string       `bson:"item" json:"item"` // ShipClass, GroundUnitClass, or facility kind
	Count  int          `bson:"count" json:"count"`
}

// DiplomaticActionKind is a direct diplomatic action (spec §4.8).
type DiplomaticActionKind string

const (
	ActionDeclareHostile DiplomaticActionKind = "DeclareHostile"
	ActionDeclareEnemy   DiplomaticActionKind = "DeclareEnemy"
	ActionSetNeutral     DiplomaticActionKind = "SetNeutral"
)

// DiplomaticAction is one direct relation-setting action this turn.
type DiplomaticAction struct {
	Kind   DiplomaticActionKind `bson:"kind" json:"kind"`
	Target ids.HouseId          `bson:"target" json:"target"`
}

// EspionageActionKind enumerates the Space-Guild EBP operations of spec
// §4.7.
type EspionageActionKind string

const (
	EspionageTechTheft             EspionageActionKind = "TechTheft"
	EspionageSabotageLow            EspionageActionKind = "SabotageLow"
	EspionageSabotageHigh           EspionageActionKind = "SabotageHigh"
	EspionageAssassination          EspionageActionKind = "Assassination"
	EspionageEconomicManipulation   EspionageActionKind = "EconomicManipulation"
	EspionageCyberAttack            EspionageActionKind = "CyberAttack"
	EspionagePsyopsCampaign         EspionageActionKind = "PsyopsCampaign"
	EspionageIntelligenceTheft      EspionageActionKind = "IntelligenceTheft"
	EspionagePlantDisinformation    EspionageActionKind = "PlantDisinformation"
	EspionageCounterIntelSweep      EspionageActionKind = "CounterIntelSweep"
	EspionageRecruitAgent           EspionageActionKind = "RecruitAgent"
)

// EspionageAction is one EBP-funded operation this turn.
type EspionageAction struct {
	Kind   EspionageActionKind `bson:"kind" json:"kind"`
	Target ids.HouseId         `bson:"target" json:"target"`
}

// ColonyManagementKind covers per-colony administrative settings (tax
// rate, automation toggles) that are not construction/build orders.
type ColonyManagementKind string

const (
	ManageSetTaxRate       ColonyManagementKind = "SetTaxRate"
	ManageStartTerraform   ColonyManagementKind = "StartTerraform"
)

// ColonyManagementAction is one per-colony administrative setting this
// turn.
type ColonyManagementAction struct {
	Kind   ColonyManagementKind `bson:"kind" json:"kind"`
	Colony ids.ColonyId         `bson:"colony" json:"colony"`
	Value  float64              `bson:"value,omitempty" json:"value,omitempty"` // tax rate, 0..1
	TargetClass string          `bson:"targetClass,omitempty" json:"targetClass,omitempty"` // terraform target
}

// PopulationTransfer moves souls between two owned colonies.
type PopulationTransfer struct {
	From   ids.ColonyId `bson:"from" json:"from"`
	To     ids.ColonyId `bson:"to" json:"to"`
	Amount int64        `bson:"amount" json:"amount"`
}

// OrderPacket is one house's full submission for a turn (spec §6).
type OrderPacket struct {
	House ids.HouseId `bson:"house" json:"house"`

	FleetCommands     []FleetCommand            `bson:"fleetCommands,omitempty" json:"fleetCommands,omitempty"`
	ZeroTurnCommands  []ZeroTurnCommand          `bson:"zeroTurnCommands,omitempty" json:"zeroTurnCommands,omitempty"`
	StandingOrders    []StandingCommand          `bson:"standingOrders,omitempty" json:"standingOrders,omitempty"`
	BuildOrders       []BuildOrder               `bson:"buildOrders,omitempty" json:"buildOrders,omitempty"`
	ResearchAllocation map[string]int            `bson:"researchAllocation,omitempty" json:"researchAllocation,omitempty"` // keyed by techtree.Field
	DiplomaticActions []DiplomaticAction         `bson:"diplomaticActions,omitempty" json:"diplomaticActions,omitempty"`
	EspionageActions  []EspionageAction          `bson:"espionageActions,omitempty" json:"espionageActions,omitempty"`
	ColonyManagement  []ColonyManagementAction   `bson:"colonyManagement,omitempty" json:"colonyManagement,omitempty"`
	PopulationTransfers []PopulationTransfer     `bson:"populationTransfers,omitempty" json:"populationTransfers,omitempty"`
	EBPInvestment     int                        `bson:"ebpInvestment,omitempty" json:"ebpInvestment,omitempty"`
	CIPInvestment     int                        `bson:"cipInvestment,omitempty" json:"cipInvestment,omitempty"`
}
