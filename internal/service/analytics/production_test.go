package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

func soldSummary(count int64, weight string, age int) models.SaleSummary {
	date := day(2024, 2, 1)
	return models.SaleSummary{
		SaleDate:         &date,
		AgeInDays:        age,
		SoldCount:        count,
		SoldWeight:       dec(weight),
		SettlementWeight: dec(weight),
	}
}

func TestProductionKPIsSurvivalRate(t *testing.T) {
	tests := []struct {
		name     string
		quantity int64
		losses   []models.FlockLossRecord
		want     string
	}{
		{name: "fifty lost of a thousand", quantity: 1000, losses: []models.FlockLossRecord{{DeadCount: 30, DefectiveCount: 20}}, want: "95"},
		{name: "no birds placed", quantity: 0, losses: []models.FlockLossRecord{{DeadCount: 3}}, want: "0"},
		{name: "nothing lost", quantity: 800, want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ProductionKPIs(ProductionInputs{
				Info:   models.InsertionInfo{InsertionQuantity: tt.quantity},
				Losses: tt.losses,
			})
			assertDecimal(t, tt.want, row.SurvivalRatePct)
		})
	}
}

func TestProductionKPIsBirdBalance(t *testing.T) {
	row := ProductionKPIs(ProductionInputs{
		Info:      models.InsertionInfo{InsertionQuantity: 1000},
		PartSale:  soldSummary(400, "800", 30),
		TotalSale: soldSummary(550, "1430", 40),
		Losses: []models.FlockLossRecord{
			{DeadCount: 20, DefectiveCount: 10},
			{DeadCount: 10},
		},
	})

	assert.Equal(t, int64(30), row.CycleDeadCount)
	assert.Equal(t, int64(10), row.CycleDefectiveCount)
	assert.Equal(t, int64(-10), row.EndCycleBirdBalance)
	assert.True(t, row.BalanceMismatch())
	assertDecimal(t, "3", row.DeadPctCycle)
	assertDecimal(t, "1", row.DefectivePctCycle)
	assertDecimal(t, "4", row.DeadAndDefectivePctCycle)
}

func TestProductionKPIsEfficiency(t *testing.T) {
	part := soldSummary(200, "400", 30)
	part.DeadCount = 5
	part.DeadWeight = dec("10")
	part.SettlementWeight = dec("390")
	total := soldSummary(800, "2000", 40)
	total.ConfiscatedCount = 5
	total.ConfiscatedWeight = dec("12.5")
	total.SettlementWeight = dec("1987.5")

	row := ProductionKPIs(ProductionInputs{
		Info:      models.InsertionInfo{InsertionQuantity: 1000, HenhouseAreaM2: dec("200")},
		PartSale:  part,
		TotalSale: total,
		FeedTons:  dec("3.804"),
		GasLiters: valid(dec("500")),
		WeightStandards: map[int]decimal.Decimal{
			30: dec("1900"),
			40: dec("2600"),
		},
	})

	assert.Equal(t, int64(195), row.PartSale.SettlementCount)
	assert.Equal(t, int64(795), row.TotalSale.SettlementCount)
	assert.Equal(t, int64(1000), row.CombinedSoldCount)
	assert.Equal(t, int64(990), row.CombinedSettlementCount)
	assertDecimal(t, "2400", row.CombinedSoldWeight)
	assertDecimal(t, "2377.5", row.CombinedSettlementWeight)

	// 400/200 = 2 kg -> 2000 g against 1900 g
	assertDecimal(t, "2", row.PartSale.AvgWeight)
	assertNullDecimal(t, "100", row.PartSale.AvgWeightDeviation)
	// 2000/800 = 2.5 kg -> 2500 g against 2600 g
	assertNullDecimal(t, "-100", row.TotalSale.AvgWeightDeviation)
	assertNullDecimal(t, "2600", row.TotalSale.StandardWeight)

	// (195*30 + 795*40) / 990
	assertDecimal(t, dec("37650").Div(dec("990")).String(), row.CombinedAvgAgeInDays)
	assertDecimal(t, "99", row.SurvivalRatePct)
	assertDecimal(t, "1.585", row.FCRWithLosses)
	assertDecimal(t, dec("3804").Div(dec("2377.5")).String(), row.FCRWithoutLosses)
	assertDecimal(t, row.CombinedAvgWeight.Sub(row.FCRWithoutLosses).String(), row.Points)

	wantEWW := row.SurvivalRatePct.Mul(row.CombinedAvgWeight).
		Div(row.CombinedAvgAgeInDays.Mul(row.FCRWithoutLosses)).
		Mul(dec("100"))
	assertDecimal(t, wantEWW.String(), row.EWW)

	assertDecimal(t, "12", row.KgPerM2BeforeConf)
	assertDecimal(t, "11.8875", row.KgPerM2AfterConf)
	assertDecimal(t, "500", row.GasConsumedLiters)
	assertDecimal(t, "2.5", row.GasConsumptionPerM2)
	assert.Equal(t, int64(0), row.EndCycleBirdBalance)
}

func TestProductionKPIsZeroDenominators(t *testing.T) {
	row := ProductionKPIs(ProductionInputs{
		Info:     models.InsertionInfo{InsertionQuantity: 0},
		FeedTons: dec("2"),
	})

	assert.True(t, row.CombinedAvgAgeInDays.IsZero())
	assert.True(t, row.CombinedAvgWeight.IsZero())
	assert.True(t, row.FCRWithLosses.IsZero())
	assert.True(t, row.FCRWithoutLosses.IsZero())
	assert.True(t, row.EWW.IsZero())
	assert.True(t, row.KgPerM2AfterConf.IsZero())
	assert.True(t, row.GasConsumptionPerM2.IsZero())
	assert.True(t, row.DeadPctCycle.IsZero())
	assert.False(t, row.PartSale.AvgWeightDeviation.Valid)
	assert.False(t, row.TotalSale.StandardWeight.Valid)
}

func TestProductionKPIsMissingStandardDay(t *testing.T) {
	row := ProductionKPIs(ProductionInputs{
		Info:            models.InsertionInfo{InsertionQuantity: 100},
		TotalSale:       soldSummary(100, "250", 41),
		WeightStandards: map[int]decimal.Decimal{40: dec("2600")},
	})

	assertDecimal(t, "2.5", row.TotalSale.AvgWeight)
	assert.False(t, row.TotalSale.AvgWeightDeviation.Valid)
	assert.False(t, row.TotalSale.StandardWeight.Valid)
}
