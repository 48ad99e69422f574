package analytics

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// ProductionInputs gathers what the production KPIs of one insertion depend on.
type ProductionInputs struct {
	Info            models.InsertionInfo
	PartSale        models.SaleSummary
	TotalSale       models.SaleSummary
	Losses          []models.FlockLossRecord
	FeedTons        decimal.Decimal
	GasLiters       decimal.NullDecimal
	WeightStandards map[int]decimal.Decimal
}

// ProductionKPIs derives the flock performance row of one insertion.
// Ratios with a zero denominator resolve to 0; only the weight deviation
// against the standard curve can be null.
func ProductionKPIs(in ProductionInputs) models.ProductionRow {
	part := productionSale(in.PartSale, in.WeightStandards)
	total := productionSale(in.TotalSale, in.WeightStandards)
	quantity := count(in.Info.InsertionQuantity)
	area := in.Info.HenhouseAreaM2

	row := models.ProductionRow{
		InsertionInfo: in.Info,
		PartSale:      part,
		TotalSale:     total,
	}

	row.CombinedSoldCount = part.SoldCount + total.SoldCount
	row.CombinedSoldWeight = part.SoldWeight.Add(total.SoldWeight)
	row.CombinedSettlementCount = part.SettlementCount + total.SettlementCount
	row.CombinedSettlementWeight = part.SettlementWeight.Add(total.SettlementWeight)
	row.CombinedAvgWeight = divideOrZero(row.CombinedSettlementWeight, count(row.CombinedSettlementCount))
	row.CombinedAvgAgeInDays = divideOrZero(
		count(part.SettlementCount).Mul(decimal.NewFromInt(int64(part.AgeInDays))).
			Add(count(total.SettlementCount).Mul(decimal.NewFromInt(int64(total.AgeInDays)))),
		count(row.CombinedSettlementCount),
	)

	row.CycleDeadCount = lo.SumBy(in.Losses, func(r models.FlockLossRecord) int64 { return r.DeadCount })
	row.CycleDefectiveCount = lo.SumBy(in.Losses, func(r models.FlockLossRecord) int64 { return r.DefectiveCount })
	row.DeadPctCycle = percentOf(row.CycleDeadCount, quantity)
	row.DefectivePctCycle = percentOf(row.CycleDefectiveCount, quantity)
	row.DeadAndDefectivePctCycle = percentOf(row.CycleDeadCount+row.CycleDefectiveCount, quantity)

	row.TotalLosses = part.DeadCount + part.ConfiscatedCount +
		total.DeadCount + total.ConfiscatedCount +
		row.CycleDeadCount + row.CycleDefectiveCount
	row.SurvivalRatePct = percentOf(in.Info.InsertionQuantity-row.TotalLosses, quantity)

	row.FeedConsumedTons = in.FeedTons
	feedKg := in.FeedTons.Mul(thousand)
	row.FCRWithLosses = divideOrZero(feedKg, row.CombinedSoldWeight)
	row.FCRWithoutLosses = divideOrZero(feedKg, row.CombinedSettlementWeight)
	row.Points = row.CombinedAvgWeight.Sub(row.FCRWithoutLosses)
	row.EWW = divideOrZero(
		row.SurvivalRatePct.Mul(row.CombinedAvgWeight),
		row.CombinedAvgAgeInDays.Mul(row.FCRWithoutLosses),
	).Mul(hundred)

	row.KgPerM2BeforeConf = divideOrZero(row.CombinedSoldWeight, area)
	row.KgPerM2AfterConf = divideOrZero(row.CombinedSettlementWeight, area)
	row.GasConsumedLiters = orZero(in.GasLiters)
	row.GasConsumptionPerM2 = divideOrZero(row.GasConsumedLiters, area)

	row.EndCycleBirdBalance = part.SoldCount + total.SoldCount +
		row.CycleDeadCount + row.CycleDefectiveCount -
		in.Info.InsertionQuantity

	return row
}

func productionSale(summary models.SaleSummary, standards map[int]decimal.Decimal) models.ProductionSale {
	sale := models.ProductionSale{
		SaleSummary:     summary,
		SettlementCount: summary.SettlementCount(),
		AvgWeight:       divideOrZero(summary.SoldWeight, count(summary.SoldCount)),
	}
	if !summary.Sold() {
		return sale
	}
	standard, ok := standards[summary.AgeInDays]
	if !ok {
		return sale
	}
	sale.StandardWeight = valid(standard)
	sale.AvgWeightDeviation = valid(sale.AvgWeight.Mul(thousand).Sub(standard))
	return sale
}

func percentOf(part int64, whole decimal.Decimal) decimal.Decimal {
	return divideOrZero(count(part).Mul(hundred), whole)
}
