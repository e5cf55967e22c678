// Package config defines GameConfig, the read-only configuration tree the
// engine is constructed with (spec §6, §9). Loading it from TOML (or any
// other on-disk format) is an external collaborator's job, per spec §1 —
// this package only defines the struct shape and a DefaultConfig fallback
// used by tests and by cmd/ec4xd's demo wiring.
package config

// ShipClass is the static identity of a ship blueprint. Distinct from
// ids.ShipId, which identifies a single ship instance.
type ShipClass string

const (
	ClassScout     ShipClass = "scout"
	ClassFrigate   ShipClass = "frigate"
	ClassDestroyer ShipClass = "destroyer"
	ClassCruiser   ShipClass = "cruiser"
	ClassCapital   ShipClass = "capital"
	ClassCarrier   ShipClass = "carrier"
	ClassFighter   ShipClass = "fighter"
	ClassRaider    ShipClass = "raider"
	ClassETAC      ShipClass = "etac"
)

// ShipStats is the immutable blueprint for one ship class.
type ShipStats struct {
	Class            ShipClass `bson:"class" json:"class"`
	Attack           int       `bson:"attack" json:"attack"`
	Defense          int       `bson:"defense" json:"defense"`
	WEP              int       `bson:"wep" json:"wep"` // weapons effectiveness/penetration
	CommandCost      int       `bson:"commandCost" json:"commandCost"`
	CommandRating    int       `bson:"commandRating" json:"commandRating"` // 0 for escort-only hulls
	BuildCostPC      int       `bson:"buildCostPc" json:"buildCostPc"`
	HangarCapacity   int       `bson:"hangarCapacity" json:"hangarCapacity"`
	CargoCapacityPTU int       `bson:"cargoCapacityPtu" json:"cargoCapacityPtu"`
	IsCapital        bool      `bson:"isCapital" json:"isCapital"` // CR >= 7 per spec capacity table
}

// GroundUnitClass is the static identity of a ground-unit blueprint.
type GroundUnitClass string

const (
	ClassArmy   GroundUnitClass = "army"
	ClassMarine GroundUnitClass = "marine"
)

// GroundUnitStats is the immutable blueprint for one ground-unit class.
type GroundUnitStats struct {
	Class       GroundUnitClass `bson:"class" json:"class"`
	Attack      int             `bson:"attack" json:"attack"`
	Defense     int             `bson:"defense" json:"defense"`
	BuildCostPC int             `bson:"buildCostPc" json:"buildCostPc"`
}

// FacilityStats holds build costs and effect magnitudes for colony
// facilities (starbases, spaceports, shipyards, drydocks, ground batteries,
// planetary shields).
type FacilityStats struct {
	StarbaseBuildCostPC      int `bson:"starbaseBuildCostPc" json:"starbaseBuildCostPc"`
	StarbaseAttack           int `bson:"starbaseAttack" json:"starbaseAttack"`
	StarbaseDefense          int `bson:"starbaseDefense" json:"starbaseDefense"`
	SpaceportBuildCostPC     int `bson:"spaceportBuildCostPc" json:"spaceportBuildCostPc"`
	ShipyardBuildCostPC      int `bson:"shipyardBuildCostPc" json:"shipyardBuildCostPc"`
	DrydockBuildCostPC       int `bson:"drydockBuildCostPc" json:"drydockBuildCostPc"`
	GroundBatteryBuildCostPC int `bson:"groundBatteryBuildCostPc" json:"groundBatteryBuildCostPc"`
	GroundBatteryDefense     int `bson:"groundBatteryDefense" json:"groundBatteryDefense"`
	ShieldPointsPerLevel     int `bson:"shieldPointsPerLevel" json:"shieldPointsPerLevel"`
}

// CombatParams tunes the Combat Engine (§4.3).
type CombatParams struct {
	MaxRounds              int     `bson:"maxRounds" json:"maxRounds"`
	CriticalHitThreshold   int     `bson:"criticalHitThreshold" json:"criticalHitThreshold"` // d20 roll plus morale modifier
	CriticalDamageMult     float64 `bson:"criticalDamageMult" json:"criticalDamageMult"`
	MoraleCollapseRatio    float64 `bson:"moraleCollapseRatio" json:"moraleCollapseRatio"` // not read by the combat engine
	DetectionBaseChance    float64 `bson:"detectionBaseChance" json:"detectionBaseChance"`
	BombardmentMaxRounds   int     `bson:"bombardmentMaxRounds" json:"bombardmentMaxRounds"`
	BlitzAttackPenalty     float64 `bson:"blitzAttackPenalty" json:"blitzAttackPenalty"` // 0.5x per spec §4.6
	TargetBucketWeights    map[ShipClass]float64 `bson:"targetBucketWeights" json:"targetBucketWeights"`
}

// EconomyParams tunes production/maintenance/salvage (§4.9).
type EconomyParams struct {
	BlockadeProductionMult float64 `bson:"blockadeProductionMult" json:"blockadeProductionMult"` // 0.5x
	SalvageRefundMult      float64 `bson:"salvageRefundMult" json:"salvageRefundMult"`            // 0.5x
	CapitalSeizureRefund   float64 `bson:"capitalSeizureRefund" json:"capitalSeizureRefund"`      // 0.5x (P3)
	TaxPenaltyPerPoint     float64 `bson:"taxPenaltyPerPoint" json:"taxPenaltyPerPoint"`
}

// PrestigeValues tunes the prestige events of §4.1/§4.9.
type PrestigeValues struct {
	CombatVictory        int `bson:"combatVictory" json:"combatVictory"`
	SquadronDestroyed    int `bson:"squadronDestroyed" json:"squadronDestroyed"`
	ColonySeized         int `bson:"colonySeized" json:"colonySeized"`
	MaintenanceShortfall int `bson:"maintenanceShortfall" json:"maintenanceShortfall"`
	EspionageSuccess     int `bson:"espionageSuccess" json:"espionageSuccess"`
	EspionageDetected    int `bson:"espionageDetected" json:"espionageDetected"`
}

// CapacityParams tunes the capacity-enforcement table of §4.10.
type CapacityParams struct {
	CapitalBaseCap     int `bson:"capitalBaseCap" json:"capitalBaseCap"`         // 8
	CapitalIUDivisor   int `bson:"capitalIuDivisor" json:"capitalIuDivisor"`     // 100
	TotalBaseCap       int `bson:"totalBaseCap" json:"totalBaseCap"`             // 20
	TotalIUDivisor     int `bson:"totalIuDivisor" json:"totalIuDivisor"`         // 50
	FighterIUDivisor   int `bson:"fighterIuDivisor" json:"fighterIuDivisor"`     // 100
	FighterMultiplier  int `bson:"fighterMultiplier" json:"fighterMultiplier"`   // FD_MULTIPLIER
	TotalSquadronGrace int `bson:"totalSquadronGrace" json:"totalSquadronGrace"` // 2 turns
	FighterGrace       int `bson:"fighterGrace" json:"fighterGrace"`             // 2 turns
	MapMultiplier      float64 `bson:"mapMultiplier" json:"mapMultiplier"`
}

// GameSetupParams tunes new-game bootstrapping.
type GameSetupParams struct {
	StartingTreasuryPP  int64 `bson:"startingTreasuryPp" json:"startingTreasuryPp"`
	StartingTechLevel   int   `bson:"startingTechLevel" json:"startingTechLevel"`
	MapSize             int   `bson:"mapSize" json:"mapSize"`
	PrestigeVictoryGoal int   `bson:"prestigeVictoryGoal" json:"prestigeVictoryGoal"`
}

// GameConfig is the complete, read-only configuration tree. It is loaded
// once at game start (by an external collaborator) and passed by reference
// to the engine and every component that needs it; nothing in this package
// or the engine mutates it.
type GameConfig struct {
	Ships       map[ShipClass]ShipStats             `bson:"ships" json:"ships"`
	GroundUnits map[GroundUnitClass]GroundUnitStats `bson:"groundUnits" json:"groundUnits"`
	Facilities  FacilityStats                       `bson:"facilities" json:"facilities"`
	Combat      CombatParams                        `bson:"combat" json:"combat"`
	Economy     EconomyParams                        `bson:"economy" json:"economy"`
	Prestige    PrestigeValues                       `bson:"prestige" json:"prestige"`
	Capacity    CapacityParams                       `bson:"capacity" json:"capacity"`
	Setup       GameSetupParams                      `bson:"setup" json:"setup"`
}

// ShipStatsFor looks up a ship class's blueprint, returning (stats, found).
// Never panics on a missing class — callers treat a missing lookup as a
// no-op/validation failure rather than a crash, per spec §9.
func (c *GameConfig) ShipStatsFor(class ShipClass) (ShipStats, bool) {
	s, ok := c.Ships[class]
	return s, ok
}

// GroundUnitStatsFor looks up a ground-unit class's blueprint.
func (c *GameConfig) GroundUnitStatsFor(class GroundUnitClass) (GroundUnitStats, bool) {
	s, ok := c.GroundUnits[class]
	return s, ok
}

// CapitalCap computes the capital-squadron cap for a house given its total
// industrial units, per the formula in spec §4.10: max(8, floor(IU/100)*2*mapMul).
func (c *GameConfig) CapitalCap(totalIU int) int {
	computed := int(float64(totalIU/c.Capacity.CapitalIUDivisor) * 2 * c.Capacity.MapMultiplier)
	if computed < c.Capacity.CapitalBaseCap {
		return c.Capacity.CapitalBaseCap
	}
	return computed
}

// TotalSquadronCap computes the total-squadron cap: max(20, floor(IU/50)*mapMul).
func (c *GameConfig) TotalSquadronCap(totalIU int) int {
	computed := int(float64(totalIU/c.Capacity.TotalIUDivisor) * c.Capacity.MapMultiplier)
	if computed < c.Capacity.TotalBaseCap {
		return c.Capacity.TotalBaseCap
	}
	return computed
}

// FighterCap computes the per-colony fighter cap: floor(IU/100)*FD_MULTIPLIER.
func (c *GameConfig) FighterCap(colonyIU int) int {
	return (colonyIU / c.Capacity.FighterIUDivisor) * c.Capacity.FighterMultiplier
}

// DefaultConfig returns a reasonable, fully populated configuration for
// tests and demo wiring (cmd/ec4xd). It is not read from disk.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Ships: map[ShipClass]ShipStats{
			ClassScout:     {Class: ClassScout, Attack: 1, Defense: 1, WEP: 1, CommandCost: 1, BuildCostPC: 10},
			ClassFrigate:   {Class: ClassFrigate, Attack: 4, Defense: 4, WEP: 2, CommandCost: 2, BuildCostPC: 30},
			ClassDestroyer: {Class: ClassDestroyer, Attack: 6, Defense: 6, WEP: 3, CommandCost: 3, BuildCostPC: 50},
			ClassCruiser:   {Class: ClassCruiser, Attack: 10, Defense: 9, WEP: 4, CommandCost: 4, CommandRating: 7, BuildCostPC: 90, IsCapital: true},
			ClassCapital:   {Class: ClassCapital, Attack: 18, Defense: 16, WEP: 6, CommandCost: 8, CommandRating: 12, BuildCostPC: 180, IsCapital: true},
			ClassCarrier:   {Class: ClassCarrier, Attack: 2, Defense: 8, WEP: 1, CommandCost: 5, CommandRating: 3, HangarCapacity: 6, BuildCostPC: 120},
			ClassFighter:   {Class: ClassFighter, Attack: 3, Defense: 1, WEP: 2, CommandCost: 0, BuildCostPC: 8},
			ClassRaider:    {Class: ClassRaider, Attack: 5, Defense: 2, WEP: 3, CommandCost: 2, BuildCostPC: 35},
			ClassETAC:      {Class: ClassETAC, Attack: 0, Defense: 2, WEP: 0, CommandCost: 1, CargoCapacityPTU: 1, BuildCostPC: 25},
		},
		GroundUnits: map[GroundUnitClass]GroundUnitStats{
			ClassArmy:   {Class: ClassArmy, Attack: 3, Defense: 4, BuildCostPC: 15},
			ClassMarine: {Class: ClassMarine, Attack: 4, Defense: 2, BuildCostPC: 20},
		},
		Facilities: FacilityStats{
			StarbaseBuildCostPC:      200,
			StarbaseAttack:           12,
			StarbaseDefense:          20,
			SpaceportBuildCostPC:     60,
			ShipyardBuildCostPC:      100,
			DrydockBuildCostPC:       80,
			GroundBatteryBuildCostPC: 40,
			GroundBatteryDefense:     6,
			ShieldPointsPerLevel:     10,
		},
		Combat: CombatParams{
			MaxRounds:            20,
			CriticalHitThreshold: 19,
			CriticalDamageMult:   2.0,
			MoraleCollapseRatio:  0.5,
			DetectionBaseChance:  0.35,
			BombardmentMaxRounds: 3,
			BlitzAttackPenalty:   0.5,
			TargetBucketWeights: map[ShipClass]float64{
				ClassRaider:    1.2,
				ClassFighter:   1.0,
				ClassDestroyer: 1.0,
				ClassCapital:   0.8,
			},
		},
		Economy: EconomyParams{
			BlockadeProductionMult: 0.5,
			SalvageRefundMult:      0.5,
			CapitalSeizureRefund:   0.5,
			TaxPenaltyPerPoint:     0.01,
		},
		Prestige: PrestigeValues{
			CombatVictory:        10,
			SquadronDestroyed:    2,
			ColonySeized:         25,
			MaintenanceShortfall: -5,
			EspionageSuccess:     5,
			EspionageDetected:    -5,
		},
		Capacity: CapacityParams{
			CapitalBaseCap:     8,
			CapitalIUDivisor:   100,
			TotalBaseCap:       20,
			TotalIUDivisor:     50,
			FighterIUDivisor:   100,
			FighterMultiplier:  4,
			TotalSquadronGrace: 2,
			FighterGrace:       2,
			MapMultiplier:      1.0,
		},
		Setup: GameSetupParams{
			StartingTreasuryPP:  500,
			StartingTechLevel:   1,
			MapSize:             1,
			PrestigeVictoryGoal: 1000,
		},
	}
}
