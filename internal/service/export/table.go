package export

import (
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

const (
	// FinancialSheet names the financial report tab.
	FinancialSheet = "Financial"
	// ProductionSheet names the production report tab.
	ProductionSheet = "Production"

	dateLayout = "2006-01-02"
)

// Table is a rendered report: one header line and one formatted line per row.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Values returns the header and rows as spreadsheet cell values.
func (t Table) Values() [][]interface{} {
	out := make([][]interface{}, 0, len(t.Rows)+1)
	out = append(out, toCells(t.Header))
	for _, row := range t.Rows {
		out = append(out, toCells(row))
	}
	return out
}

func toCells(line []string) []interface{} {
	return lo.Map(line, func(v string, _ int) interface{} { return v })
}

type column[T any] struct {
	header string
	value  func(T) string
}

func render[T any](name string, columns []column[T], rows []T) Table {
	table := Table{
		Name:   name,
		Header: lo.Map(columns, func(c column[T], _ int) string { return c.header }),
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, lo.Map(columns, func(c column[T], _ int) string { return c.value(row) }))
	}
	return table
}

// FinancialTable renders the financial report.
func FinancialTable(report models.Report[models.FinancialRow]) Table {
	info := func(r models.FinancialRow) models.InsertionInfo { return r.InsertionInfo }

	columns := insertionColumns(info)
	columns = append(columns, saleColumns("part_", func(r models.FinancialRow) models.SaleSummary { return r.PartSale })...)
	columns = append(columns, saleColumns("total_", func(r models.FinancialRow) models.SaleSummary { return r.TotalSale })...)
	columns = append(columns,
		column[models.FinancialRow]{"combined_settlement_weight", func(r models.FinancialRow) string { return measure(r.CombinedSettlementWeight) }},
		column[models.FinancialRow]{"combined_revenue", func(r models.FinancialRow) string { return money(r.CombinedRevenue) }},
		column[models.FinancialRow]{"combined_revenue_vat", func(r models.FinancialRow) string { return money(r.CombinedRevenueVAT) }},
		column[models.FinancialRow]{"feed_cost", func(r models.FinancialRow) string { return money(r.FeedCost) }},
		column[models.FinancialRow]{"chicks_cost", func(r models.FinancialRow) string { return moneyNull(r.ChicksCost) }},
		column[models.FinancialRow]{"vet_care_cost", func(r models.FinancialRow) string { return moneyNull(r.VetCareCost) }},
		column[models.FinancialRow]{"gas_cost", func(r models.FinancialRow) string { return moneyNull(r.GasCost) }},
		column[models.FinancialRow]{"other_costs", func(r models.FinancialRow) string { return moneyNull(r.OtherCosts) }},
		column[models.FinancialRow]{"total_costs", func(r models.FinancialRow) string { return money(r.TotalCosts) }},
		column[models.FinancialRow]{"vat_costs", func(r models.FinancialRow) string { return money(r.VATCosts) }},
		column[models.FinancialRow]{"income", func(r models.FinancialRow) string { return money(r.Income) }},
	)

	ratios := []struct {
		name  string
		value func(models.FinancialRow) decimal.NullDecimal
	}{
		{"revenue_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.RevenuePerKg }},
		{"revenue_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.RevenuePerM2 }},
		{"feed_cost_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.FeedCostPerKg }},
		{"feed_cost_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.FeedCostPerM2 }},
		{"chicks_cost_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.ChicksCostPerKg }},
		{"chicks_cost_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.ChicksCostPerM2 }},
		{"vet_care_cost_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.VetCareCostPerKg }},
		{"vet_care_cost_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.VetCareCostPerM2 }},
		{"gas_cost_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.GasCostPerKg }},
		{"gas_cost_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.GasCostPerM2 }},
		{"other_costs_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.OtherCostsPerKg }},
		{"other_costs_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.OtherCostsPerM2 }},
		{"total_costs_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.TotalCostsPerKg }},
		{"total_costs_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.TotalCostsPerM2 }},
		{"income_per_kg", func(r models.FinancialRow) decimal.NullDecimal { return r.IncomePerKg }},
		{"income_per_m2", func(r models.FinancialRow) decimal.NullDecimal { return r.IncomePerM2 }},
	}
	for _, ratio := range ratios {
		value := ratio.value
		columns = append(columns, column[models.FinancialRow]{ratio.name, func(r models.FinancialRow) string { return measureNull(value(r)) }})
	}

	return render(FinancialSheet, columns, report.Rows)
}

// ProductionTable renders the production report.
func ProductionTable(report models.Report[models.ProductionRow]) Table {
	info := func(r models.ProductionRow) models.InsertionInfo { return r.InsertionInfo }

	columns := insertionColumns(info)
	columns = append(columns, productionSaleColumns("part_", func(r models.ProductionRow) models.ProductionSale { return r.PartSale })...)
	columns = append(columns, productionSaleColumns("total_", func(r models.ProductionRow) models.ProductionSale { return r.TotalSale })...)
	columns = append(columns,
		column[models.ProductionRow]{"combined_sold_count", func(r models.ProductionRow) string { return integer(r.CombinedSoldCount) }},
		column[models.ProductionRow]{"combined_sold_weight", func(r models.ProductionRow) string { return measure(r.CombinedSoldWeight) }},
		column[models.ProductionRow]{"combined_settlement_count", func(r models.ProductionRow) string { return integer(r.CombinedSettlementCount) }},
		column[models.ProductionRow]{"combined_settlement_weight", func(r models.ProductionRow) string { return measure(r.CombinedSettlementWeight) }},
		column[models.ProductionRow]{"combined_avg_weight", func(r models.ProductionRow) string { return measure(r.CombinedAvgWeight) }},
		column[models.ProductionRow]{"combined_avg_age_in_days", func(r models.ProductionRow) string { return measure(r.CombinedAvgAgeInDays) }},
		column[models.ProductionRow]{"cycle_dead_count", func(r models.ProductionRow) string { return integer(r.CycleDeadCount) }},
		column[models.ProductionRow]{"cycle_defective_count", func(r models.ProductionRow) string { return integer(r.CycleDefectiveCount) }},
		column[models.ProductionRow]{"dead_pct_cycle", func(r models.ProductionRow) string { return measure(r.DeadPctCycle) }},
		column[models.ProductionRow]{"defective_pct_cycle", func(r models.ProductionRow) string { return measure(r.DefectivePctCycle) }},
		column[models.ProductionRow]{"dead_and_defective_pct_cycle", func(r models.ProductionRow) string { return measure(r.DeadAndDefectivePctCycle) }},
		column[models.ProductionRow]{"total_losses", func(r models.ProductionRow) string { return integer(r.TotalLosses) }},
		column[models.ProductionRow]{"survival_rate_pct", func(r models.ProductionRow) string { return measure(r.SurvivalRatePct) }},
		column[models.ProductionRow]{"feed_consumed_tons", func(r models.ProductionRow) string { return measure(r.FeedConsumedTons) }},
		column[models.ProductionRow]{"fcr_with_losses", func(r models.ProductionRow) string { return measure(r.FCRWithLosses) }},
		column[models.ProductionRow]{"fcr_without_losses", func(r models.ProductionRow) string { return measure(r.FCRWithoutLosses) }},
		column[models.ProductionRow]{"points", func(r models.ProductionRow) string { return measure(r.Points) }},
		column[models.ProductionRow]{"eww", func(r models.ProductionRow) string { return measure(r.EWW) }},
		column[models.ProductionRow]{"kg_per_m2_before_conf", func(r models.ProductionRow) string { return measure(r.KgPerM2BeforeConf) }},
		column[models.ProductionRow]{"kg_per_m2_after_conf", func(r models.ProductionRow) string { return measure(r.KgPerM2AfterConf) }},
		column[models.ProductionRow]{"gas_consumed_liters", func(r models.ProductionRow) string { return measure(r.GasConsumedLiters) }},
		column[models.ProductionRow]{"gas_consumption_per_m2", func(r models.ProductionRow) string { return measure(r.GasConsumptionPerM2) }},
		column[models.ProductionRow]{"end_cycle_bird_balance", func(r models.ProductionRow) string { return integer(r.EndCycleBirdBalance) }},
	)

	return render(ProductionSheet, columns, report.Rows)
}

func insertionColumns[T any](info func(T) models.InsertionInfo) []column[T] {
	return []column[T]{
		{"insertion_id", func(r T) string { return integer(info(r).InsertionID) }},
		{"farm_id", func(r T) string { return integer(info(r).FarmID) }},
		{"henhouse_id", func(r T) string { return integer(info(r).HenhouseID) }},
		{"henhouse", func(r T) string { return info(r).HenhouseName }},
		{"henhouse_area_m2", func(r T) string { return measure(info(r).HenhouseAreaM2) }},
		{"cycle", func(r T) string { return info(r).Cycle.String() }},
		{"hatchery_id", func(r T) string { return integer(info(r).HatcheryID) }},
		{"insertion_date", func(r T) string { return info(r).InsertionDate.Format(dateLayout) }},
		{"insertion_quantity", func(r T) string { return integer(info(r).InsertionQuantity) }},
	}
}

func saleColumns[T any](prefix string, sale func(T) models.SaleSummary) []column[T] {
	return []column[T]{
		{prefix + "sale_date", func(r T) string { return datePtr(sale(r).SaleDate) }},
		{prefix + "age_in_days", func(r T) string { return ageInDays(sale(r)) }},
		{prefix + "sold_count", func(r T) string { return integer(sale(r).SoldCount) }},
		{prefix + "sold_weight", func(r T) string { return measure(sale(r).SoldWeight) }},
		{prefix + "farmer_weight", func(r T) string { return measure(sale(r).FarmerWeight) }},
		{prefix + "dead_count", func(r T) string { return integer(sale(r).DeadCount) }},
		{prefix + "dead_weight", func(r T) string { return measure(sale(r).DeadWeight) }},
		{prefix + "confiscated_count", func(r T) string { return integer(sale(r).ConfiscatedCount) }},
		{prefix + "confiscated_weight", func(r T) string { return measure(sale(r).ConfiscatedWeight) }},
		{prefix + "settlement_weight", func(r T) string { return measure(sale(r).SettlementWeight) }},
		{prefix + "weighted_base_price", func(r T) string { return moneyNull(sale(r).WeightedBasePrice) }},
		{prefix + "weighted_final_price", func(r T) string { return moneyNull(sale(r).WeightedFinalPrice) }},
		{prefix + "revenue", func(r T) string { return money(sale(r).Revenue) }},
	}
}

func productionSaleColumns[T any](prefix string, sale func(T) models.ProductionSale) []column[T] {
	columns := saleColumns(prefix, func(r T) models.SaleSummary { return sale(r).SaleSummary })
	return append(columns,
		column[T]{prefix + "settlement_count", func(r T) string { return integer(sale(r).SettlementCount) }},
		column[T]{prefix + "avg_weight", func(r T) string { return measure(sale(r).AvgWeight) }},
		column[T]{prefix + "standard_weight", func(r T) string { return measureNull(sale(r).StandardWeight) }},
		column[T]{prefix + "avg_weight_deviation", func(r T) string { return measureNull(sale(r).AvgWeightDeviation) }},
	)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func moneyNull(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return money(n.Decimal)
}

func measure(d decimal.Decimal) string {
	return d.StringFixed(3)
}

func measureNull(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return measure(n.Decimal)
}

func integer(n int64) string {
	return strconv.FormatInt(n, 10)
}

func datePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ageInDays is empty when no sale of the type happened.
func ageInDays(s models.SaleSummary) string {
	if !s.Sold() {
		return ""
	}
	return strconv.Itoa(s.AgeInDays)
}
