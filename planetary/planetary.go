// Package planetary implements the three planetary-operation orders of
// spec §4.6: Bombardment, Invasion, and Blitz. Each reads the target
// colony's current fields directly (none of them goes through
// BuildDefense's PlanetaryDefense view), and each draws its randomness from rngseed.OpPlanetaryCombat so reruns are
// bit-exact (P1).
//
// Grounded on the combat package's CER-roll/round-loop shape (spec §4.3),
// generalized from squadron-vs-squadron exchanges to the scalar
// attack/defense totals ground forces and fixed defenses reduce to.
package planetary

import (
	"math/rand"

	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/rngseed"
)

// PlanetaryDefense is the read-only view of a colony's defenses an
// attacker's orders are resolved against (spec §4.6: "shields, ground
// batteries, ground forces, spaceport presence").
type PlanetaryDefense struct {
	ShieldPoints    int
	GroundBatteries int
	GroundDefense   int // summed Attack/Defense of armies+marines
	HasSpaceport    bool
}

func groundUnitStats(u *fleet.GroundUnit, cfg *config.GameConfig) (config.GroundUnitStats, bool) {
	return cfg.GroundUnitStatsFor(u.Class)
}

// BuildDefense assembles a colony's PlanetaryDefense view from its garrison
// (spec §4.6: "Build PlanetaryDefense view of the target").
func BuildDefense(c *colony.Colony, lookup func(ids.GroundUnitId) (*fleet.GroundUnit, bool), cfg *config.GameConfig) PlanetaryDefense {
	def := PlanetaryDefense{
		ShieldPoints:    c.PlanetaryShield * cfg.Facilities.ShieldPointsPerLevel,
		GroundBatteries: c.GroundBatteries,
		HasSpaceport:    c.HasSpaceport(),
	}
	for _, id := range append(append([]ids.GroundUnitId{}, c.Armies...), c.Marines...) {
		u, ok := lookup(id)
		if !ok {
			continue
		}
		stats, ok := groundUnitStats(u, cfg)
		if !ok {
			continue
		}
		def.GroundDefense += stats.Defense
	}
	def.GroundDefense += c.GroundBatteries * cfg.Facilities.GroundBatteryDefense
	return def
}

// BombardResult summarizes one bombardment's effect (spec §4.6).
type BombardResult struct {
	InfrastructureLoss int64
	BatteriesDestroyed int
	GroundForcesKilled int
	ScrappedConstruction bool
}

// fleetAttackStrength sums the effective attack of a combat fleet's
// squadrons (flagship + escorts), used as the bombardment's damage pool.
func fleetAttackStrength(attackers []*fleet.Fleet, cfg *config.GameConfig) int {
	total := 0
	for _, f := range attackers {
		for i := range f.Squadrons {
			if f.Squadrons[i].State == fleet.StateDestroyed {
				continue
			}
			if stats, ok := cfg.ShipStatsFor(f.Squadrons[i].Flagship.Class); ok {
				total += stats.Attack
			}
			for _, e := range f.Squadrons[i].Escorts {
				if stats, ok := cfg.ShipStatsFor(e.Class); ok {
					total += stats.Attack
				}
			}
		}
	}
	return total
}

// Bombard runs conductBombardment against the target colony (spec §4.6:
// "fleet in orbit, requires space supremacy"). Callers are responsible for
// having already confirmed space supremacy (no contesting fleet of
// comparable strength) before invoking this — Bombard itself only resolves
// the damage exchange.
func Bombard(c *colony.Colony, attackers []*fleet.Fleet, seed int64, turn int32, cfg *config.GameConfig, lookup func(ids.GroundUnitId) (*fleet.GroundUnit, bool)) BombardResult {
	if len(attackers) == 0 {
		return BombardResult{}
	}

	maxRounds := cfg.Combat.BombardmentMaxRounds
	if maxRounds <= 0 {
		maxRounds = 3
	}

	rng := rngseed.New(seed, turn, rngseed.OpPlanetaryCombat, int64(c.ID))
	pool := fleetAttackStrength(attackers, cfg)

	var totalDamage int64
	var battlesDestroyed int
	remainingBatteries := c.GroundBatteries

	for round := 0; round < maxRounds && pool > 0; round++ {
		roll := 1 + rng.Intn(20)
		dealt := int64(pool) * int64(roll) / 20
		totalDamage += dealt
		if remainingBatteries > 0 {
			destroyed := int(dealt / 50)
			if destroyed > remainingBatteries {
				destroyed = remainingBatteries
			}
			remainingBatteries -= destroyed
			battlesDestroyed += destroyed
		}
	}

	infraLoss := totalDamage / 10
	if infraLoss > c.InfrastructureIU {
		infraLoss = c.InfrastructureIU
	}
	c.InfrastructureIU -= infraLoss
	c.GroundBatteries = remainingBatteries

	killed := killGroundForces(c, totalDamage)

	result := BombardResult{
		InfrastructureLoss: infraLoss,
		BatteriesDestroyed: battlesDestroyed,
		GroundForcesKilled: killed,
	}

	if infraLoss > 0 && len(c.ConstructionQueue) > 0 {
		c.ConstructionQueue = c.ConstructionQueue[:len(c.ConstructionQueue)-1]
		result.ScrappedConstruction = true
	}

	return result
}

// killGroundForces removes garrisoned units in proportion to bombardment
// damage. Which kind goes first is not specified by spec §4.6, so units
// are removed in the order they appear on the colony (armies first, then
// marines) for determinism.
func killGroundForces(c *colony.Colony, damage int64) int {
	toKill := int(damage / 25)
	killed := 0
	for toKill > 0 && len(c.Armies) > 0 {
		c.Armies = c.Armies[1:]
		killed++
		toKill--
	}
	for toKill > 0 && len(c.Marines) > 0 {
		c.Marines = c.Marines[1:]
		killed++
		toKill--
	}
	return killed
}

// groundCombat resolves an attacker/defender exchange as a sequence of d20
// CER rolls against the raw attack/defense totals supplied, mirroring the
// combat package's roll shape without its per-squadron state machine
// (ground forces here are scalar pools, not individually tracked units in
// combat). Returns whether the attacker prevailed.
func groundCombat(attackStrength, defenseStrength int, rng *rand.Rand) bool {
	attackerPool := attackStrength * 5
	defenderPool := defenseStrength * 5
	// Two HP-style pools duel down to zero; a defender reduced to zero
	// first means the landing succeeds (spec §4.6 describes invasion and
	// blitz as attacker-favorable once batteries are down/fought-through).
	for round := 0; round < 50 && attackerPool > 0 && defenderPool > 0; round++ {
		roll := 1 + rng.Intn(20)
		defenderPool -= attackStrength * roll / 20
		roll = 1 + rng.Intn(20)
		attackerPool -= defenseStrength * roll / 20
	}
	return defenderPool <= 0
}

// Precondition/outcome errors for Invade/Blitz, kept distinct from the
// orders package's admission-time Rejection since these fire at
// execution time against battlefield state that may have changed since
// admission (spec §7's two-stage validation).
type Failure struct {
	Reason string
}

func (f *Failure) Error() string { return f.Reason }

// InvadeResult reports a completed invasion's outcome.
type InvadeResult struct {
	Success         bool
	MarinesLost     []ids.GroundUnitId
	MarinesGarrisoned []ids.GroundUnitId
	PrestigeTransfer int
}

// extractMarines pulls marine GroundUnitIds out of an invading fleet's
// spacelift cargo (spec §4.6: "Extract marines from spacelift cargo into
// GroundUnit[]").
func extractMarines(attackers []*fleet.Fleet) []ids.GroundUnitId {
	var out []ids.GroundUnitId
	for _, f := range attackers {
		for i := range f.Spacelift {
			out = append(out, f.Spacelift[i].Cargo...)
			f.Spacelift[i].Cargo = nil
		}
	}
	return out
}

func sumMarineAttack(marineIDs []ids.GroundUnitId, cfg *config.GameConfig, lookup func(ids.GroundUnitId) (*fleet.GroundUnit, bool)) int {
	total := 0
	for _, id := range marineIDs {
		u, ok := lookup(id)
		if !ok {
			continue
		}
		stats, ok := groundUnitStats(u, cfg)
		if !ok {
			continue
		}
		total += stats.Attack
	}
	return total
}

// Invade resolves an invasion order. Precondition: every ground battery at
// the colony must already be destroyed (spec §4.6, S4); otherwise the
// order fails with no state change and the marines remain aboard.
func Invade(c *colony.Colony, attackers []*fleet.Fleet, attacker ids.HouseId, seed int64, turn int32, cfg *config.GameConfig, remove func(ids.GroundUnitId), lookup func(ids.GroundUnitId) (*fleet.GroundUnit, bool)) (InvadeResult, *Failure) {
	if !c.AllGroundBatteriesDestroyed() {
		return InvadeResult{}, &Failure{Reason: "ground batteries still operational"}
	}

	marines := extractMarines(attackers)
	if len(marines) == 0 {
		return InvadeResult{}, &Failure{Reason: "no marines to land"}
	}

	attackStrength := sumMarineAttack(marines, cfg, lookup)
	defenseStrength := 0
	for _, id := range append(append([]ids.GroundUnitId{}, c.Armies...), c.Marines...) {
		u, ok := lookup(id)
		if !ok {
			continue
		}
		stats, ok := groundUnitStats(u, cfg)
		if !ok {
			continue
		}
		defenseStrength += stats.Defense
	}

	rng := rngseed.New(seed, turn, rngseed.OpPlanetaryCombat, int64(c.ID))
	won := groundCombat(attackStrength, defenseStrength, rng)

	if !won {
		for _, id := range marines {
			remove(id)
		}
		return InvadeResult{Success: false, MarinesLost: marines}, nil
	}

	c.ApplySeizurePenalties()
	c.Marines = append(c.Marines, marines...)

	return InvadeResult{
		Success:           true,
		MarinesGarrisoned: marines,
		PrestigeTransfer:  cfg.Prestige.ColonySeized,
	}, nil
}

// SettlePrestige applies the zero-sum prestige transfer of a successful
// colony seizure: the attacker gains, the prior owner loses the same
// amount (spec §4.6: "prestige zero-sum transfer for colony capture").
func SettlePrestige(attacker, defender *house.House, amount int) {
	attacker.AwardPrestige(amount)
	if defender != nil {
		defender.AwardPrestige(-amount)
	}
}

// BlitzResult reports a completed blitz's outcome.
type BlitzResult struct {
	Success     bool
	MarinesLost []ids.GroundUnitId
	MarinesGarrisoned []ids.GroundUnitId
}

// Blitz resolves a fast-insertion invasion: marines attack at a penalty
// but batteries are fought through rather than required pre-destroyed
// (spec §4.6). On success, ownership transfers without infrastructure
// damage — assets stay intact, and blockade status is preserved rather
// than cleared.
func Blitz(c *colony.Colony, attackers []*fleet.Fleet, attacker ids.HouseId, seed int64, turn int32, cfg *config.GameConfig, remove func(ids.GroundUnitId), lookup func(ids.GroundUnitId) (*fleet.GroundUnit, bool)) BlitzResult {
	marines := extractMarines(attackers)
	if len(marines) == 0 {
		return BlitzResult{}
	}

	attackStrength := int(float64(sumMarineAttack(marines, cfg, lookup)) * cfg.Combat.BlitzAttackPenalty)
	defenseStrength := c.GroundBatteries * cfg.Facilities.GroundBatteryDefense
	for _, id := range append(append([]ids.GroundUnitId{}, c.Armies...), c.Marines...) {
		u, ok := lookup(id)
		if !ok {
			continue
		}
		stats, ok := groundUnitStats(u, cfg)
		if !ok {
			continue
		}
		defenseStrength += stats.Defense
	}

	rng := rngseed.New(seed, turn, rngseed.OpPlanetaryCombat, int64(c.ID))
	won := groundCombat(attackStrength, defenseStrength, rng)

	if !won {
		for _, id := range marines {
			remove(id)
		}
		return BlitzResult{Success: false, MarinesLost: marines}
	}

	c.Marines = append(c.Marines, marines...)
	return BlitzResult{Success: true, MarinesGarrisoned: marines}
}
