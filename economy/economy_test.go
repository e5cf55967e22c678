package economy

import (
	"testing"

	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/house"
	"github.com/stretchr/testify/assert"
)

func TestSalvageRefundMatchesS5(t *testing.T) {
	cfg := config.DefaultConfig()
	f := &fleet.Fleet{
		Squadrons: []fleet.Squadron{
			{Flagship: fleet.Ship{Class: config.ClassFrigate}},
			{Flagship: fleet.Ship{Class: config.ClassFrigate}},
			{Flagship: fleet.Ship{Class: config.ClassFrigate}},
		},
	}
	// 3 Frigates @ PC 30 each = 90; refund = floor(90*0.5) = 45 (S5).
	assert.Equal(t, int64(45), SalvageRefund(f, cfg))
}

func TestCapitalSeizureRefundHalvesBuildCost(t *testing.T) {
	cfg := config.DefaultConfig()
	sq := &fleet.Squadron{Flagship: fleet.Ship{Class: config.ClassCapital}}
	refund := CapitalSeizureRefund(sq, cfg)
	stats, _ := cfg.ShipStatsFor(config.ClassCapital)
	assert.Equal(t, int64(float64(stats.BuildCostPC)*0.5), refund)
}

func TestSettleMaintenanceReportsShortfall(t *testing.T) {
	h := house.New(1, 10)
	shortfall := SettleMaintenance(h, 50)
	assert.Equal(t, int64(0), h.TreasuryPP)
	assert.Equal(t, int64(40), shortfall)
}

func TestCreditPostMaintenancePaymentsSumsBothSources(t *testing.T) {
	h := house.New(1, 0)
	CreditPostMaintenancePayments(h, 45, 90)
	assert.Equal(t, int64(135), h.TreasuryPP)
}

func TestColonyFacilityUpkeepSumsEachCategory(t *testing.T) {
	rates := DefaultFacilityUpkeep()
	c := &colony.Colony{Starbases: 1, Spaceports: 2, Shipyards: 1, Drydocks: 0, GroundBatteries: 3}
	expected := rates.Starbase + 2*rates.Spaceport + rates.Shipyard + 3*rates.GroundBattery
	assert.Equal(t, expected, ColonyFacilityUpkeep(c, rates))
}
