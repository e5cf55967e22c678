// Package economy implements production, maintenance, blockade penalty,
// salvage income, and seizure-payment ordering (spec §4.9).
//
// The per-class upkeep-rate table is grounded on the teacher's
// ships.EconomicCap map (a per-ShipType multiplier table driving a
// throughput calculation) generalized from "fraction of a Drone's
// income rate" to "PP maintenance cost per ship class per turn".
package economy

import (
	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/house"
)

// MaintenanceRatePC is the per-turn PP upkeep cost for one ship of a
// given class, keyed the same way as the teacher's EconomicCap table.
// Scaled from each class's build cost so heavier hulls cost
// proportionally more to maintain.
var MaintenanceRatePC = map[config.ShipClass]float64{
	config.ClassScout:     0.05,
	config.ClassFrigate:   0.06,
	config.ClassDestroyer: 0.07,
	config.ClassCruiser:   0.08,
	config.ClassCapital:   0.10,
	config.ClassCarrier:   0.08,
	config.ClassFighter:   0.04,
	config.ClassRaider:    0.06,
	config.ClassETAC:      0.05,
}

// FacilityUpkeepPC is the flat per-turn PP upkeep for one unit of a
// facility type.
type FacilityUpkeepPC struct {
	Starbase      int64
	Spaceport     int64
	Shipyard      int64
	Drydock       int64
	GroundBattery int64
}

// DefaultFacilityUpkeep returns a reasonable flat facility-upkeep table.
func DefaultFacilityUpkeep() FacilityUpkeepPC {
	return FacilityUpkeepPC{Starbase: 10, Spaceport: 4, Shipyard: 6, Drydock: 5, GroundBattery: 2}
}

// shipMaintenance sums one ship's per-turn upkeep via MaintenanceRatePC
// against its build cost.
func shipMaintenance(class config.ShipClass, cfg *config.GameConfig) int64 {
	stats, ok := cfg.ShipStatsFor(class)
	if !ok {
		return 0
	}
	rate, ok := MaintenanceRatePC[class]
	if !ok {
		rate = 0.05
	}
	return int64(float64(stats.BuildCostPC) * rate)
}

// FleetMaintenance sums the per-turn maintenance cost of every ship in a
// fleet (spec §4.9: "Maintenance is sum(ship maintenance) + sum(facility
// upkeep)").
func FleetMaintenance(f *fleet.Fleet, cfg *config.GameConfig) int64 {
	var total int64
	for i := range f.Squadrons {
		total += shipMaintenance(f.Squadrons[i].Flagship.Class, cfg)
		for _, e := range f.Squadrons[i].Escorts {
			total += shipMaintenance(e.Class, cfg)
		}
		for _, fg := range f.Squadrons[i].EmbarkedFighters {
			total += shipMaintenance(fg.Class, cfg)
		}
	}
	for _, s := range f.Spacelift {
		total += shipMaintenance(s.Class, cfg)
	}
	return total
}

// ColonyFacilityUpkeep sums a colony's facility maintenance.
func ColonyFacilityUpkeep(c *colony.Colony, rates FacilityUpkeepPC) int64 {
	return int64(c.Starbases)*rates.Starbase +
		int64(c.Spaceports)*rates.Spaceport +
		int64(c.Shipyards)*rates.Shipyard +
		int64(c.Drydocks)*rates.Drydock +
		int64(c.GroundBatteries)*rates.GroundBattery
}

// HouseMaintenance sums every fleet and colony maintenance cost owed by
// one house this turn.
func HouseMaintenance(fleets []*fleet.Fleet, colonies []*colony.Colony, cfg *config.GameConfig, rates FacilityUpkeepPC) int64 {
	var total int64
	for _, f := range fleets {
		total += FleetMaintenance(f, cfg)
	}
	for _, c := range colonies {
		total += ColonyFacilityUpkeep(c, rates)
	}
	return total
}

// SalvageRefund computes the PP refund for scrapping a fleet at a
// friendly dock (spec §4.5 Order 15 / P3 / S5: "Compute refund as
// floor(sum(shipBuildCost)/2)").
func SalvageRefund(f *fleet.Fleet, cfg *config.GameConfig) int64 {
	return int64(float64(f.TotalBuildCost(cfg)) * cfg.Economy.SalvageRefundMult)
}

// CapitalSeizureRefund computes the PP refund for a capacity-forced
// capital-squadron seizure (spec §4.10 / P3: "refund credited =
// floor(0.5 * original PC)").
func CapitalSeizureRefund(sq *fleet.Squadron, cfg *config.GameConfig) int64 {
	return int64(float64(sq.BuildCost(cfg)) * cfg.Economy.CapitalSeizureRefund)
}

// SettleMaintenance deducts a house's total maintenance from its
// treasury, returning the shortfall (if any) for the Income Phase's
// MaintenanceShortfall prestige penalty (spec §4.9).
func SettleMaintenance(h *house.House, totalMaintenance int64) (shortfall int64) {
	return h.DeductMaintenance(totalMaintenance)
}

// CreditPostMaintenancePayments credits salvage and seizure refunds to a
// house's treasury — executed after maintenance but before prestige
// calculation (spec §4.9: "Salvage and Space-Guild seizure payments are
// credited after maintenance but before prestige calculation").
func CreditPostMaintenancePayments(h *house.House, salvage, seizure int64) {
	h.CreditTreasury(salvage)
	h.CreditTreasury(seizure)
}
