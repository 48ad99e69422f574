package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// FinancialInputs gathers what the financial KPIs of one insertion depend on.
type FinancialInputs struct {
	Info      models.InsertionInfo
	PartSale  models.SaleSummary
	TotalSale models.SaleSummary
	FeedCost  decimal.Decimal
	Costs     AllocatedCosts
	VATRate   decimal.Decimal
}

// FinancialKPIs derives the money row of one insertion. Allocated costs that
// could not be computed count as zero in the totals but stay null in the row.
func FinancialKPIs(in FinancialInputs) models.FinancialRow {
	row := models.FinancialRow{
		InsertionInfo: in.Info,
		PartSale:      in.PartSale,
		TotalSale:     in.TotalSale,
		FeedCost:      in.FeedCost,
		ChicksCost:    in.Costs.ChicksCost,
		VetCareCost:   in.Costs.VetCareCost,
		GasCost:       in.Costs.GasCost,
		OtherCosts:    in.Costs.OtherCosts,
	}

	row.CombinedSettlementWeight = in.PartSale.SettlementWeight.Add(in.TotalSale.SettlementWeight)
	row.CombinedRevenue = in.PartSale.Revenue.Add(in.TotalSale.Revenue)
	row.CombinedRevenueVAT = in.PartSale.Revenue.Mul(in.VATRate).Add(in.TotalSale.Revenue.Mul(in.VATRate))

	row.TotalCosts = in.FeedCost.
		Add(orZero(row.ChicksCost)).
		Add(orZero(row.VetCareCost)).
		Add(orZero(row.GasCost)).
		Add(orZero(row.OtherCosts))
	row.VATCosts = row.TotalCosts.Mul(in.VATRate)
	row.Income = row.CombinedRevenue.Sub(row.TotalCosts)

	weight := row.CombinedSettlementWeight
	area := in.Info.HenhouseAreaM2

	row.RevenuePerKg = divide(row.CombinedRevenue, weight)
	row.RevenuePerM2 = divide(row.CombinedRevenue, area)
	row.FeedCostPerKg = divide(row.FeedCost, weight)
	row.FeedCostPerM2 = divide(row.FeedCost, area)
	row.ChicksCostPerKg = divideNull(row.ChicksCost, weight)
	row.ChicksCostPerM2 = divideNull(row.ChicksCost, area)
	row.VetCareCostPerKg = divideNull(row.VetCareCost, weight)
	row.VetCareCostPerM2 = divideNull(row.VetCareCost, area)
	row.GasCostPerKg = divideNull(row.GasCost, weight)
	row.GasCostPerM2 = divideNull(row.GasCost, area)
	row.OtherCostsPerKg = divideNull(row.OtherCosts, weight)
	row.OtherCostsPerM2 = divideNull(row.OtherCosts, area)
	row.TotalCostsPerKg = divide(row.TotalCosts, weight)
	row.TotalCostsPerM2 = divide(row.TotalCosts, area)
	row.IncomePerKg = subtractNull(row.RevenuePerKg, row.TotalCostsPerKg)
	row.IncomePerM2 = subtractNull(row.RevenuePerM2, row.TotalCostsPerM2)

	return row
}
