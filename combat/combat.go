// Package combat implements the Combat Engine of spec §4.3: CER-roll
// resolution, squadron target bucketing, multi-round engagement, the
// crippled/destroyed state machine, and retreat/survivor detection.
//
// Grounded on the teacher's ships.CombatContext/formation_combat.go round
// structure (detection -> phase ordering -> per-attacker roll -> damage
// distribution -> retreat check), generalized from the teacher's
// formation-position damage distribution to EC4X's class-based target
// buckets, and from the teacher's ShipStack HP-bucket damage model to the
// spec's flagship-then-escort squadron damage model.
package combat

import (
	"math/rand"

	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/rngseed"
)

// Bucket is one of the five target classes combat distributes attacks
// across (spec §4.3: "Target buckets per ship class: Raider / Fighter /
// Destroyer / Starbase / Capital").
type Bucket string

const (
	BucketRaider    Bucket = "raider"
	BucketFighter   Bucket = "fighter"
	BucketDestroyer Bucket = "destroyer"
	BucketStarbase  Bucket = "starbase"
	BucketCapital   Bucket = "capital"
)

// bucketFor classifies a ship class into its target bucket.
func bucketFor(class config.ShipClass) Bucket {
	switch class {
	case config.ClassRaider:
		return BucketRaider
	case config.ClassFighter:
		return BucketFighter
	case config.ClassDestroyer:
		return BucketDestroyer
	case config.ClassCapital, config.ClassCruiser:
		return BucketCapital
	default:
		return BucketDestroyer
	}
}

// CombatSquadron wraps a fleet.Squadron with the per-battle tags spec
// §4.3 lists: ROE, cloak bit, scout/morale modifiers, homeworld-defender
// bit, and the owning house.
type CombatSquadron struct {
	House             ids.HouseId
	Squadron          *fleet.Squadron
	ROE               int
	Cloaked           bool
	Detected          bool
	MoraleModifier    int
	HomeworldDefender bool
	IsStarbase        bool // pseudo-squadron representing a colony's starbase
	Retreated         bool
}

// Bucket reports this squadron's target bucket.
func (cs *CombatSquadron) Bucket() Bucket {
	if cs.IsStarbase {
		return BucketStarbase
	}
	return bucketFor(cs.Squadron.Flagship.Class)
}

// BattleContext is the input to a combat resolution (spec §4.3).
type BattleContext struct {
	System               ids.SystemId
	TaskForces           []*CombatSquadron
	Seed                 int64
	Turn                 int32
	MaxRounds            int
	AllowAmbush          bool
	AllowStarbaseCombat  bool
	PreDetectedHouses    map[ids.HouseId]bool
}

// CombatResult is the outcome of one resolution (spec §4.3).
type CombatResult struct {
	Survivors   []*CombatSquadron
	Retreated   []*CombatSquadron
	Eliminated  []*CombatSquadron
	Victor      ids.HouseId
	HasVictor   bool
	TotalRounds int
	WasStalemate bool
}

// houses returns the distinct set of houses with a task force present.
func houses(forces []*CombatSquadron) map[ids.HouseId]bool {
	out := make(map[ids.HouseId]bool)
	for _, f := range forces {
		out[f.House] = true
	}
	return out
}

// Resolve runs the Combat Engine for one system (spec §4.3). Combat with
// fewer than 2 distinct houses is a no-op, matching spec §4.3's failure
// semantics.
func Resolve(bc BattleContext, cfg *config.GameConfig) CombatResult {
	if len(houses(bc.TaskForces)) < 2 {
		return CombatResult{Survivors: bc.TaskForces}
	}

	maxRounds := bc.MaxRounds
	if maxRounds <= 0 {
		maxRounds = cfg.Combat.MaxRounds
	}

	rng := rngseed.New(bc.Seed, bc.Turn, rngseed.OpSpaceCombat, int64(bc.System))
	preDetected := bc.PreDetectedHouses

	active := make([]*CombatSquadron, 0, len(bc.TaskForces))
	for _, f := range bc.TaskForces {
		if f.IsStarbase && !bc.AllowStarbaseCombat {
			// Starbases are always present for detection but screened from
			// space-combat damage exchange (spec §4.3 "Starbase special
			// case").
			f.Detected = f.Detected || preDetected[f.House]
			continue
		}
		if preDetected[f.House] {
			f.Detected = true
		}
		active = append(active, f)
	}

	round := 0
	for ; round < maxRounds; round++ {
		if len(houses(active)) < 2 {
			break
		}

		detectionPass(active, rng, cfg)
		active = engagementRound(active, rng, cfg)
		active, _ = applyRetreats(active, cfg)

		if len(houses(active)) < 2 {
			round++
			break
		}
	}

	result := CombatResult{TotalRounds: round}
	remaining := houses(active)
	if round >= maxRounds && len(remaining) >= 2 {
		result.WasStalemate = true
	} else if len(remaining) == 1 {
		for h := range remaining {
			result.Victor = h
			result.HasVictor = true
		}
	}

	for _, f := range bc.TaskForces {
		switch {
		case f.Retreated:
			result.Retreated = append(result.Retreated, f)
		case f.Squadron != nil && f.Squadron.State == fleet.StateDestroyed:
			result.Eliminated = append(result.Eliminated, f)
		default:
			result.Survivors = append(result.Survivors, f)
		}
	}
	return result
}

// detectionPass resolves cloak detection for undetected cloaked
// squadrons (spec §4.3 round step 1). Once detected, a squadron's cloak
// bit clears for the rest of the battle.
func detectionPass(forces []*CombatSquadron, rng *rand.Rand, cfg *config.GameConfig) {
	for _, f := range forces {
		if !f.Cloaked || f.Detected {
			continue
		}
		if rng.Float64() < cfg.Combat.DetectionBaseChance {
			f.Detected = true
		}
	}
}

// targetable reports whether a squadron can currently be targeted: has a
// live (non-nil, non-destroyed) squadron, and (if cloaked) already
// detected. A starbase pseudo-squadron must carry a Squadron the same as
// any other task force to be eligible as attacker or target.
func targetable(f *CombatSquadron) bool {
	if f.Squadron == nil || f.Squadron.State == fleet.StateDestroyed {
		return false
	}
	if f.Cloaked && !f.Detected {
		return false
	}
	return true
}

// engagementRound runs one round's CER rolls: each attacker rolls against
// a target drawn from the opposing houses' eligible buckets (spec §4.3
// steps 2-4). Returns the surviving task forces.
func engagementRound(forces []*CombatSquadron, rng *rand.Rand, cfg *config.GameConfig) []*CombatSquadron {
	for _, attacker := range forces {
		if !targetable(attacker) {
			continue
		}
		target := pickTarget(forces, attacker, rng, cfg)
		if target == nil {
			continue
		}
		resolveAttack(attacker, target, rng, cfg)
	}

	survivors := forces[:0]
	for _, f := range forces {
		if f.Squadron == nil || f.Squadron.State != fleet.StateDestroyed {
			survivors = append(survivors, f)
		}
	}
	return survivors
}

// pickTarget weights target selection by Combat.TargetBucketWeights,
// looked up by each candidate's flagship class (a class with no positive
// weight counts as 1.0), restricted to opposing, currently-targetable
// squadrons.
func pickTarget(forces []*CombatSquadron, attacker *CombatSquadron, rng *rand.Rand, cfg *config.GameConfig) *CombatSquadron {
	var candidates []*CombatSquadron
	var weights []float64
	total := 0.0
	for _, f := range forces {
		if f.House == attacker.House || !targetable(f) {
			continue
		}
		w := cfg.Combat.TargetBucketWeights[f.Squadron.Flagship.Class]
		if w <= 0 {
			w = 1.0
		}
		candidates = append(candidates, f)
		weights = append(weights, w)
		total += w
	}
	if len(candidates) == 0 {
		return nil
	}
	roll := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll <= acc {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// resolveAttack performs one CER roll and applies damage/state-machine
// transition to the target (spec §4.3 steps 3-4).
func resolveAttack(attacker, target *CombatSquadron, rng *rand.Rand, cfg *config.GameConfig) {
	roll := 1 + rng.Intn(20) + attacker.MoraleModifier
	if roll < 1 {
		// A miss still counts as a resolved attack; no damage applied.
		return
	}

	critical := roll >= cfg.Combat.CriticalHitThreshold

	switch target.Squadron.State {
	case fleet.StateUndamaged:
		target.Squadron.State = fleet.StateCrippled
	case fleet.StateCrippled:
		target.Squadron.State = fleet.StateDestroyed
	}

	if critical && target.Squadron.State == fleet.StateCrippled {
		// A critical hit against an already-fresh target skips straight to
		// destroyed, per spec §4.3: "finalRoll >= criticalHitThreshold marks
		// a critical hit (doubled damage or crippling at discretion of
		// config)".
		target.Squadron.State = fleet.StateDestroyed
	}
}

// applyRetreats withdraws every crippled squadron whose ROE is 2 or lower
// and that is not a homeworld defender (spec §4.3 step 5). Morale and
// Combat.MoraleCollapseRatio are not consulted. Returns the forces still
// in the fight and the number that retreated.
func applyRetreats(forces []*CombatSquadron, cfg *config.GameConfig) ([]*CombatSquadron, int) {
	remaining := forces[:0]
	retreatedCount := 0
	for _, f := range forces {
		if f.Squadron != nil && f.Squadron.State == fleet.StateCrippled && f.ROE <= 2 && !f.HomeworldDefender {
			f.Retreated = true
			retreatedCount++
			continue
		}
		remaining = append(remaining, f)
	}
	return remaining, retreatedCount
}
