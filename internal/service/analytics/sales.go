package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// AggregateSales collapses every sale of saleType recorded for an insertion
// into one bundle. Prices are weighted by settlement weight and stay null
// when the settlement weight sums to zero. An insertion without such sales
// yields a zero bundle with a nil SaleDate.
func AggregateSales(ins models.FlockInsertion, sales []models.SaleRecord, saleType models.SaleType) models.SaleSummary {
	var (
		summary       models.SaleSummary
		weightedBase  decimal.Decimal
		weightedFinal decimal.Decimal
	)

	for _, sale := range sales {
		if sale.Type != saleType {
			continue
		}

		if summary.SaleDate == nil || sale.SaleDate.Before(*summary.SaleDate) {
			date := sale.SaleDate
			summary.SaleDate = &date
		}

		settlement := sale.SettlementWeight()
		summary.SettlementWeight = summary.SettlementWeight.Add(settlement)
		weightedBase = weightedBase.Add(settlement.Mul(sale.BasePrice))
		weightedFinal = weightedFinal.Add(settlement.Mul(sale.PriceWithExtras))

		summary.SoldCount += sale.Quantity
		summary.SoldWeight = summary.SoldWeight.Add(sale.Weight)
		summary.FarmerWeight = summary.FarmerWeight.Add(sale.FarmerWeight)
		summary.DeadCount += sale.DeadCount
		summary.DeadWeight = summary.DeadWeight.Add(sale.DeadWeight)
		summary.ConfiscatedCount += sale.ConfiscatedCount
		summary.ConfiscatedWeight = summary.ConfiscatedWeight.Add(sale.ConfiscatedWeight)
	}

	if summary.SaleDate == nil {
		return summary
	}

	summary.WeightedBasePrice = divide(weightedBase, summary.SettlementWeight)
	summary.WeightedFinalPrice = divide(weightedFinal, summary.SettlementWeight)
	summary.Revenue = weightedFinal
	summary.AgeInDays = AgeInDays(ins.InsertionDate, *summary.SaleDate)

	return summary
}

// AgeInDays counts the whole days strictly between placement and sale.
func AgeInDays(insertionDate, saleDate time.Time) int {
	return dayNumber(saleDate) - dayNumber(insertionDate) - 1
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
