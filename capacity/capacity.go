// Package capacity enforces the per-house/per-colony capacity table of
// spec §4.10: capital-squadron seizure, total-squadron/fighter forced
// disbandment with grace periods, and Planet-Breaker scrapping (I8). Run
// once per house in the Income Phase, after maintenance, because IU may
// have changed this turn (spec §4.10: "because IU may have dropped
// (blockades, captured colonies)").
//
// New to this codebase — grounded directly in spec §4.10's table; the
// teacher has no analogous forced-divestiture mechanic.
package capacity

import (
	"sort"

	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/economy"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/state"
)

// SeizedCapital is one capital squadron seized for over-cap, alongside
// its refund (spec §4.10 / P3).
type SeizedCapital struct {
	Fleet    *fleet.Fleet
	Squadron fleet.Squadron
	Refund   int64
}

// Disbanded is one escort/fighter squadron force-disbanded for over-cap
// (no refund, spec §4.10).
type Disbanded struct {
	Fleet    *fleet.Fleet
	Squadron fleet.Squadron
}

// Result summarizes one house's capacity-enforcement pass for one turn.
type Result struct {
	SeizedCapitals    []SeizedCapital
	DisbandedSquadrons []Disbanded
	ScrappedPlanetBreakers []ids.ColonyId
}

func totalIU(colonies []*colony.Colony) int64 {
	var total int64
	for _, c := range colonies {
		total += c.InfrastructureIU
	}
	return total
}

// lowestASSquadron finds the escort squadron (non-capital) with the
// lowest attack stat across a set of fleets, for the total-squadron
// over-cap policy ("auto-disband weakest escorts, lowest AS").
func lowestASSquadron(fleets []*fleet.Fleet, cfg *config.GameConfig, skipCapitals bool) (*fleet.Fleet, int, bool) {
	var bestFleet *fleet.Fleet
	bestIdx := -1
	bestAttack := -1
	for _, f := range fleets {
		for i := range f.Squadrons {
			sq := &f.Squadrons[i]
			if sq.State == fleet.StateDestroyed {
				continue
			}
			if skipCapitals && sq.IsCapital(cfg) {
				continue
			}
			stats, ok := cfg.ShipStatsFor(sq.Flagship.Class)
			if !ok {
				continue
			}
			if bestIdx == -1 || stats.Attack < bestAttack {
				bestFleet = f
				bestIdx = i
				bestAttack = stats.Attack
			}
		}
	}
	if bestIdx == -1 {
		return nil, -1, false
	}
	return bestFleet, bestIdx, true
}

// EnforceCapital seizes excess capital squadrons immediately (no grace),
// crediting the house 50% of their build cost (spec §4.10 row 1, P3).
func EnforceCapital(s *state.GameState, houseID ids.HouseId, cfg *config.GameConfig) []SeizedCapital {
	fleets := ownedFleets(s, houseID)
	colonies := ownedColonies(s, houseID)
	cap := cfg.CapitalCap(int(totalIU(colonies)))

	count := 0
	for _, f := range fleets {
		count += f.CapitalCount(cfg)
	}

	var seized []SeizedCapital
	for count > cap {
		f, idx, ok := lowestCapitalSquadron(fleets, cfg)
		if !ok {
			break
		}
		refund := economy.CapitalSeizureRefund(&f.Squadrons[idx], cfg)
		seized = append(seized, SeizedCapital{Fleet: f, Squadron: f.Squadrons[idx], Refund: refund})
		f.Squadrons[idx].State = fleet.StateDestroyed
		count--
	}
	return seized
}

func lowestCapitalSquadron(fleets []*fleet.Fleet, cfg *config.GameConfig) (*fleet.Fleet, int, bool) {
	var bestFleet *fleet.Fleet
	bestIdx := -1
	bestAttack := -1
	for _, f := range fleets {
		for i := range f.Squadrons {
			sq := &f.Squadrons[i]
			if sq.State == fleet.StateDestroyed || !sq.IsCapital(cfg) {
				continue
			}
			stats, ok := cfg.ShipStatsFor(sq.Flagship.Class)
			if !ok {
				continue
			}
			if bestIdx == -1 || stats.Attack < bestAttack {
				bestFleet = f
				bestIdx = i
				bestAttack = stats.Attack
			}
		}
	}
	if bestIdx == -1 {
		return nil, -1, false
	}
	return bestFleet, bestIdx, true
}

// EnforceTotalSquadrons disbands weakest escorts with no refund once a
// house's 2-turn grace period has expired (spec §4.10 row 2).
func EnforceTotalSquadrons(s *state.GameState, houseID ids.HouseId, cfg *config.GameConfig, grace *state.GracePeriodTracker) []Disbanded {
	fleets := ownedFleets(s, houseID)
	colonies := ownedColonies(s, houseID)
	cap := cfg.TotalSquadronCap(int(totalIU(colonies)))

	count := squadronCount(fleets)
	if count <= cap {
		grace.TurnsRemaining = deleteCategory(grace.TurnsRemaining, state.CategoryTotalSquadron)
		return nil
	}

	grace.Start(state.CategoryTotalSquadron, cfg.Capacity.TotalSquadronGrace)
	if grace.Active(state.CategoryTotalSquadron) {
		return nil
	}

	var disbanded []Disbanded
	for count > cap {
		f, idx, ok := lowestASSquadron(fleets, cfg, true)
		if !ok {
			break
		}
		disbanded = append(disbanded, Disbanded{Fleet: f, Squadron: f.Squadrons[idx]})
		f.Squadrons[idx].State = fleet.StateDestroyed
		count--
	}
	return disbanded
}

func deleteCategory(m map[state.CapacityCategory]int, cat state.CapacityCategory) map[state.CapacityCategory]int {
	if m == nil {
		return m
	}
	delete(m, cat)
	return m
}

func squadronCount(fleets []*fleet.Fleet) int {
	n := 0
	for _, f := range fleets {
		for i := range f.Squadrons {
			if f.Squadrons[i].State != fleet.StateDestroyed {
				n++
			}
		}
	}
	return n
}

// EnforceFighters disbands excess fighter squadrons at a colony once its
// grace period expires (spec §4.10 row 3). Fighters are held only as a
// per-colony count (Colony.FighterSquadrons), so the excess is subtracted
// from that count; no individual squadron, oldest or otherwise, is picked.
func EnforceFighters(c *colony.Colony, cfg *config.GameConfig, grace *state.GracePeriodTracker) int {
	cap := c.FighterCap(cfg)
	if c.FighterSquadrons <= cap {
		grace.TurnsRemaining = deleteCategory(grace.TurnsRemaining, state.CategoryFighter)
		return 0
	}

	grace.Start(state.CategoryFighter, cfg.Capacity.FighterGrace)
	if grace.Active(state.CategoryFighter) {
		return 0
	}

	excess := c.FighterSquadrons - cap
	c.FighterSquadrons -= excess
	return excess
}

// EnforcePlanetBreakers scraps a colony's Planet-Breaker(s) in excess of
// 1 (spec §4.10 row 4, I8).
func EnforcePlanetBreakers(c *colony.Colony) bool {
	if c.PlanetBreakers <= 1 {
		return false
	}
	c.PlanetBreakers = 1
	return true
}

// ownedFleets/ownedColonies are thin helpers over state.GameState's
// owner indices, kept here rather than duplicated per enforcement
// function.
func ownedFleets(s *state.GameState, h ids.HouseId) []*fleet.Fleet {
	var out []*fleet.Fleet
	for _, id := range s.FleetsByOwner(h) {
		if f, ok := s.Fleets[id]; ok {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func ownedColonies(s *state.GameState, h ids.HouseId) []*colony.Colony {
	var out []*colony.Colony
	for _, id := range s.ColoniesByOwner(h) {
		if c, ok := s.Colonies[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
