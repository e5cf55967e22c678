package phases

import (
	"sort"

	"github.com/greenm01/ec4x/capacity"
	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/economy"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/state"
)

// defaultClassMultiplier and defaultResourceRating stand in for the
// planet-class/resource-rating inputs colony.GrossOutput expects, which
// map generation (out of scope here) would otherwise supply per colony.
// Every colony is treated as an average world until a map generator is
// wired in upstream of the engine.
const (
	defaultClassMultiplier = 1.0
	defaultResourceRating  = 1.0
)

// taxBandPenaltyThreshold and taxBandBonusThreshold bound the prestige
// effect of a house's colony tax rates (spec §4.1 Income Phase step 7:
// "tax bands"). Rates at or above the penalty threshold strain a
// population enough to cost prestige; rates at or below the bonus
// threshold earn a small goodwill bonus. Between the two, tax rate has
// no prestige effect.
const (
	taxBandPenaltyThreshold = 0.5
	taxBandBonusThreshold   = 0.1
)

// IncomePhase executes the nine sub-steps of spec §4.1 Phase 2: blockade-
// penalized production, maintenance deduction, Salvage execution,
// capacity enforcement, treasury crediting, prestige events, victory/
// defeat checks, and timer advancement.
func IncomePhase(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, log *events.Log, turn int32) {
	rates := economy.DefaultFacilityUpkeep()

	for _, h := range sortedHouseIDs(gs) {
		hse, ok := gs.House(h)
		if !ok || !hse.IsActive() {
			continue
		}

		colonies := ownedColoniesSorted(gs, h)
		fleets := ownedFleetsSorted(gs, h)

		var totalProduction int64
		for _, c := range colonies {
			gross := c.GrossOutput(defaultClassMultiplier, defaultResourceRating, cfg)
			totalProduction += c.NetProduction(gross, cfg)
		}

		maintenance := economy.HouseMaintenance(fleets, colonies, cfg, rates)
		shortfall := economy.SettleMaintenance(hse, maintenance)
		if shortfall > 0 {
			hse.AwardPrestige(cfg.Prestige.MaintenanceShortfall)
			log.Append(events.GameEvent{Kind: events.KindMaintenanceShortfall, Turn: turn, House: h, IntAmount: shortfall})
		}

		salvageTotal := executeSalvageOrders(gs, packets[h].FleetCommands, h, cfg, log, turn)

		var seizureTotal int64
		for _, s := range capacity.EnforceCapital(gs, h, cfg) {
			seizureTotal += s.Refund
			log.Append(events.GameEvent{Kind: events.KindCapitalShipSeized, Turn: turn, House: h, Fleet: s.Fleet.ID, IntAmount: s.Refund})
		}

		grace := gs.GraceTrackerFor(h)
		for range capacity.EnforceTotalSquadrons(gs, h, cfg, grace) {
			log.Append(events.GameEvent{Kind: events.KindSquadronDisbanded, Turn: turn, House: h})
		}
		for _, c := range colonies {
			if excess := capacity.EnforceFighters(c, cfg, grace); excess > 0 {
				log.Append(events.GameEvent{Kind: events.KindFighterDisbanded, Turn: turn, House: h, Colony: c.ID, IntAmount: int64(excess)})
			}
			if capacity.EnforcePlanetBreakers(c) {
				log.Append(events.GameEvent{Kind: events.KindPlanetBreakerScrapped, Turn: turn, House: h, Colony: c.ID})
			}
		}

		hse.CreditTreasury(totalProduction)
		economy.CreditPostMaintenancePayments(hse, salvageTotal, seizureTotal)

		applyTaxBandPrestige(hse, colonies, cfg)
	}

	checkVictoryAndDefeat(gs, cfg, log, turn)

	gs.AdvanceTimers()
}

// executeSalvageOrders disbands every fleet with a Salvage order at a
// friendly colony offering a dock, crediting half its build cost (spec
// §4.1 step 4 / §4.5 Order 15 / S5). A fleet without dock access is left
// untouched rather than failed. Orders are read only from this turn's
// packet; an order that did not apply is not kept for a later turn.
func executeSalvageOrders(gs *state.GameState, cmds []orders.FleetCommand, h ids.HouseId, cfg *config.GameConfig, log *events.Log, turn int32) int64 {
	var total int64
	for _, cmd := range cmds {
		if cmd.Kind != orders.CmdSalvage {
			continue
		}
		f, ok := gs.Fleets[cmd.Fleet]
		if !ok || f.Owner != h {
			continue
		}
		c, ok := gs.ColonyBySystem(f.Location)
		if !ok || c.Owner != h || !c.CanDock() {
			continue
		}
		refund := economy.SalvageRefund(f, cfg)
		total += refund
		log.Append(events.GameEvent{Kind: events.KindOrderCompleted, Turn: turn, House: h, Fleet: f.ID, Colony: c.ID, IntAmount: refund, Reason: "salvage"})
		gs.RemoveFleet(f.ID)
	}
	return total
}

// applyTaxBandPrestige awards or penalizes prestige from a house's colony
// tax rates (spec §4.1 step 7's "tax bands").
func applyTaxBandPrestige(h *house.House, colonies []*colony.Colony, cfg *config.GameConfig) {
	for _, c := range colonies {
		switch {
		case c.TaxRate >= taxBandPenaltyThreshold:
			h.AwardPrestige(-1)
		case c.TaxRate <= taxBandBonusThreshold:
			h.AwardPrestige(1)
		}
	}
}

// checkVictoryAndDefeat evaluates the prestige-threshold victory
// condition and house-elimination defeat condition (spec §4.1 step 8).
func checkVictoryAndDefeat(gs *state.GameState, cfg *config.GameConfig, log *events.Log, turn int32) {
	for _, h := range sortedHouseIDs(gs) {
		hse, ok := gs.House(h)
		if !ok || !hse.IsActive() {
			continue
		}
		if len(gs.ColoniesByOwner(h)) == 0 && len(gs.FleetsByOwner(h)) == 0 {
			hse.Eliminated = true
			log.Append(events.GameEvent{Kind: events.KindHouseEliminated, Turn: turn, House: h})
			continue
		}
		if hse.Prestige >= cfg.Setup.PrestigeVictoryGoal {
			log.Append(events.GameEvent{Kind: events.KindVictory, Turn: turn, House: h, IntAmount: int64(hse.Prestige)})
		}
	}
}

func ownedColoniesSorted(gs *state.GameState, h ids.HouseId) []*colony.Colony {
	var out []*colony.Colony
	for _, id := range gs.ColoniesByOwner(h) {
		if c, ok := gs.Colonies[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func ownedFleetsSorted(gs *state.GameState, h ids.HouseId) []*fleet.Fleet {
	var out []*fleet.Fleet
	for _, id := range gs.FleetsByOwner(h) {
		if f, ok := gs.Fleets[id]; ok {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
