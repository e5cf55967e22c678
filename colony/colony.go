// Package colony defines Colony, the economic/defensive entity rooted at
// a single system (spec §3): population, infrastructure, production,
// facilities, garrison, and the construction/repair/terraform projects
// the Maintenance Phase advances.
//
// Adapted from the teacher's orbitables.System/Planet pair (colonization
// state embedded on the system, buildings embedded on the planet) and
// buildings.BaseBuilding (Name/Level/Queue shape, generalized into
// ConstructionProject). EC4X collapses "system" and "planet" into one
// Colony keyed by ids.SystemId — spec §3 does not model an uncolonized
// planet as a distinct entity from its system.
package colony

import (
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/ids"
)

// ProjectKind identifies what a construction/repair queue entry builds.
type ProjectKind string

const (
	ProjectStarbase      ProjectKind = "starbase"
	ProjectSpaceport     ProjectKind = "spaceport"
	ProjectShipyard      ProjectKind = "shipyard"
	ProjectDrydock       ProjectKind = "drydock"
	ProjectGroundBattery ProjectKind = "groundBattery"
	ProjectShield        ProjectKind = "shield"
	ProjectRepair        ProjectKind = "repair" // repairs a crippled squadron at a drydock
	ProjectShip          ProjectKind = "ship"       // Item names the ship class under construction
	ProjectGroundUnit    ProjectKind = "groundUnit" // Item names the ground-unit class under construction
)

// ConstructionProject is one entry in a colony's construction or repair
// queue, adapted from the teacher's buildings.Queue (Action/Start/Duration)
// generalized to turn-counted remaining work instead of a wall-clock start
// time — the engine's determinism discipline (spec §5) forbids wall-clock
// state anywhere in GameState.
type ConstructionProject struct {
	Kind           ProjectKind    `bson:"kind" json:"kind"`
	Item           string         `bson:"item,omitempty" json:"item,omitempty"` // ship/ground-unit class; unused for facility kinds
	TurnsRemaining int            `bson:"turnsRemaining" json:"turnsRemaining"`
	TargetSquadron ids.SquadronId `bson:"targetSquadron,omitempty" json:"targetSquadron,omitempty"` // set for ProjectRepair
}

// Advance ticks one turn off the project, reporting whether it completed
// this turn (spec §4.1 Phase 4: "construction/repair queue advancement
// (produces CompletedProjects consumed next turn)").
func (p *ConstructionProject) Advance() bool {
	if p.TurnsRemaining <= 0 {
		return true
	}
	p.TurnsRemaining--
	return p.TurnsRemaining <= 0
}

// TerraformProject tracks progress toward upgrading a colony's planet
// class, advanced once per Maintenance Phase.
type TerraformProject struct {
	TargetClass    string `bson:"targetClass" json:"targetClass"`
	TurnsRemaining int    `bson:"turnsRemaining" json:"turnsRemaining"`
}

// Advance ticks the terraform project, reporting completion.
func (p *TerraformProject) Advance() bool {
	if p.TurnsRemaining <= 0 {
		return true
	}
	p.TurnsRemaining--
	return p.TurnsRemaining <= 0
}

// Population is a colony's workforce, tracked in both abstract production
// units and the "souls" headcount spec §3 calls out separately.
type Population struct {
	Units int64 `bson:"units" json:"units"`
	Souls int64 `bson:"souls" json:"souls"`
}

// Colony is the economic/defensive presence a house holds at a system.
type Colony struct {
	ID     ids.ColonyId `bson:"id" json:"id"`
	Owner  ids.HouseId  `bson:"owner" json:"owner"`
	System ids.SystemId `bson:"system" json:"system"`

	Population     Population `bson:"population" json:"population"`
	InfrastructureIU int64    `bson:"infrastructureIu" json:"infrastructureIu"`
	TaxRate        float64    `bson:"taxRate" json:"taxRate"` // 0..1; higher rates add a prestige/production penalty band

	// Facilities. Counts rather than IDs: starbases/spaceports/shipyards/
	// drydocks are fungible infrastructure, not individually tracked
	// entities (unlike squadrons, which are).
	Starbases  int `bson:"starbases" json:"starbases"`
	Spaceports int `bson:"spaceports" json:"spaceports"`
	Shipyards  int `bson:"shipyards" json:"shipyards"`
	Drydocks   int `bson:"drydocks" json:"drydocks"`

	FighterSquadrons  int `bson:"fighterSquadrons" json:"fighterSquadrons"`
	GroundBatteries   int `bson:"groundBatteries" json:"groundBatteries"`
	PlanetaryShield   int `bson:"planetaryShield" json:"planetaryShield"` // level; 0 = no shield
	PlanetBreakers    int `bson:"planetBreakers" json:"planetBreakers"`   // capped at 1 per colony (spec §4.10, I8)

	Armies  []ids.GroundUnitId `bson:"armies,omitempty" json:"armies,omitempty"`
	Marines []ids.GroundUnitId `bson:"marines,omitempty" json:"marines,omitempty"`

	ConstructionQueue []ConstructionProject `bson:"constructionQueue,omitempty" json:"constructionQueue,omitempty"`
	RepairQueue       []ConstructionProject `bson:"repairQueue,omitempty" json:"repairQueue,omitempty"`
	Terraform         *TerraformProject     `bson:"terraform,omitempty" json:"terraform,omitempty"`

	Blockaded bool `bson:"blockaded" json:"blockaded"`
}

// HasSpaceport reports whether this colony has a working spaceport —
// required for several order preconditions (e.g. Salvage, spec §4.5
// Order 15: "fleet must be at a friendly colony with a spaceport or
// shipyard").
func (c *Colony) HasSpaceport() bool {
	return c.Spaceports > 0
}

// HasShipyard reports whether this colony has a working shipyard.
func (c *Colony) HasShipyard() bool {
	return c.Shipyards > 0
}

// CanDock reports whether a fleet may dock to salvage or repair here:
// either a spaceport or a shipyard satisfies spec §4.5 Order 15.
func (c *Colony) CanDock() bool {
	return c.HasSpaceport() || c.HasShipyard()
}

// AllGroundBatteriesDestroyed reports whether invasion's precondition is
// met (spec S4: invasion requires every ground battery destroyed first,
// else the order fails admission/execution).
func (c *Colony) AllGroundBatteriesDestroyed() bool {
	return c.GroundBatteries <= 0
}

// GrossOutput computes this colony's production before blockade/tax
// penalties, derived from planet-class/resource-rating inputs an
// external collaborator supplies via classMultiplier and
// resourceRating (spec §4.9: "Per-colony base production derived from
// planet class x resource rating x IU x (1 - tax_penalty)").
func (c *Colony) GrossOutput(classMultiplier, resourceRating float64, cfg *config.GameConfig) int64 {
	taxPenalty := c.TaxRate * cfg.Economy.TaxPenaltyPerPoint * 100
	if taxPenalty > 1 {
		taxPenalty = 1
	}
	output := classMultiplier * resourceRating * float64(c.InfrastructureIU) * (1 - taxPenalty)
	if output < 0 {
		return 0
	}
	return int64(output)
}

// NetProduction applies the blockade penalty on top of GrossOutput (spec
// §4.9: "Blockade applies 0.5x multiplier").
func (c *Colony) NetProduction(gross int64, cfg *config.GameConfig) int64 {
	if !c.Blockaded {
		return gross
	}
	return int64(float64(gross) * cfg.Economy.BlockadeProductionMult)
}

// HalveInfrastructure applies the colony-seizure infrastructure penalty
// (spec §4.6: "On success: transfer ownership, halve infrastructure, zero
// shields and spaceports").
func (c *Colony) HalveInfrastructure() {
	c.InfrastructureIU /= 2
}

// ApplySeizurePenalties zeroes shields and spaceports and halves
// infrastructure — the post-invasion damage of spec §4.6. It does not
// touch Owner: ownership transfer must go through
// state.GameState.TransferColonyOwnership so the coloniesByOwner index
// stays coherent (state.go: "never mutate colony.Owner directly, or the
// index drifts out of I5").
func (c *Colony) ApplySeizurePenalties() {
	c.HalveInfrastructure()
	c.PlanetaryShield = 0
	c.Spaceports = 0
	c.Blockaded = false
}

// FighterCap computes this colony's fighter-squadron cap from its own
// infrastructure, per the §4.10 capacity table.
func (c *Colony) FighterCap(cfg *config.GameConfig) int {
	return cfg.FighterCap(int(c.InfrastructureIU))
}
