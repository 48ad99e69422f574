package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter narrows the insertions a report covers. Empty slices and nil
// dates leave the corresponding dimension unfiltered.
type ReportFilter struct {
	FarmIDs     []int64    `json:"farm_ids,omitempty"`
	HenhouseIDs []int64    `json:"henhouse_ids,omitempty"`
	HatcheryIDs []int64    `json:"hatchery_ids,omitempty"`
	Cycles      []Cycle    `json:"cycles,omitempty"`
	DateSince   *time.Time `json:"date_since,omitempty"`
	DateTo      *time.Time `json:"date_to,omitempty"`
}

// CycleMatches composes the cycle entries into a single OR predicate.
func (f ReportFilter) CycleMatches(c Cycle) bool {
	if len(f.Cycles) == 0 {
		return true
	}
	for _, want := range f.Cycles {
		if want.Covers(c) {
			return true
		}
	}
	return false
}

// Matches applies every filter dimension to an insertion.
func (f ReportFilter) Matches(ins FlockInsertion) bool {
	if len(f.FarmIDs) > 0 && !containsID(f.FarmIDs, ins.FarmID) {
		return false
	}
	if len(f.HenhouseIDs) > 0 && !containsID(f.HenhouseIDs, ins.HenhouseID) {
		return false
	}
	if len(f.HatcheryIDs) > 0 && !containsID(f.HatcheryIDs, ins.HatcheryID) {
		return false
	}
	if !f.CycleMatches(ins.Cycle) {
		return false
	}
	if f.DateSince != nil && ins.InsertionDate.Before(*f.DateSince) {
		return false
	}
	if f.DateTo != nil && ins.InsertionDate.After(*f.DateTo) {
		return false
	}
	return true
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Report is an ordered list of per-insertion rows.
type Report[T any] struct {
	Rows      []T `json:"rows"`
	TotalRows int `json:"total_rows"`
}

// InsertionInfo identifies the insertion a row was computed for.
type InsertionInfo struct {
	InsertionID       int64           `json:"insertion_id"`
	FarmID            int64           `json:"farm_id"`
	HenhouseID        int64           `json:"henhouse_id"`
	HenhouseName      string          `json:"henhouse_name"`
	HenhouseAreaM2    decimal.Decimal `json:"henhouse_area_m2"`
	Cycle             Cycle           `json:"cycle"`
	HatcheryID        int64           `json:"hatchery_id"`
	InsertionDate     time.Time       `json:"insertion_date"`
	InsertionQuantity int64           `json:"insertion_quantity"`
}

// SaleSummary collapses every sale of one type for one insertion.
type SaleSummary struct {
	SaleDate           *time.Time          `json:"sale_date"`
	AgeInDays          int                 `json:"age_in_days"`
	SoldCount          int64               `json:"sold_count"`
	SoldWeight         decimal.Decimal     `json:"sold_weight"`
	FarmerWeight       decimal.Decimal     `json:"farmer_weight"`
	DeadCount          int64               `json:"dead_count"`
	DeadWeight         decimal.Decimal     `json:"dead_weight"`
	ConfiscatedCount   int64               `json:"confiscated_count"`
	ConfiscatedWeight  decimal.Decimal     `json:"confiscated_weight"`
	SettlementWeight   decimal.Decimal     `json:"settlement_weight"`
	WeightedBasePrice  decimal.NullDecimal `json:"weighted_base_price"`
	WeightedFinalPrice decimal.NullDecimal `json:"weighted_final_price"`
	Revenue            decimal.Decimal     `json:"revenue"`
}

// Sold reports whether at least one sale contributed to the summary.
func (s SaleSummary) Sold() bool {
	return s.SaleDate != nil
}

// SettlementCount is the number of birds eligible for payment.
func (s SaleSummary) SettlementCount() int64 {
	return s.SoldCount - s.DeadCount - s.ConfiscatedCount
}

// FinancialRow holds the money view of one insertion. Ratios whose
// denominator is zero are null.
type FinancialRow struct {
	InsertionInfo

	PartSale  SaleSummary `json:"part_sale"`
	TotalSale SaleSummary `json:"total_sale"`

	CombinedSettlementWeight decimal.Decimal `json:"combined_settlement_weight"`
	CombinedRevenue          decimal.Decimal `json:"combined_revenue"`
	CombinedRevenueVAT       decimal.Decimal `json:"combined_revenue_vat"`

	FeedCost    decimal.Decimal     `json:"feed_cost"`
	ChicksCost  decimal.NullDecimal `json:"chicks_cost"`
	VetCareCost decimal.NullDecimal `json:"vet_care_cost"`
	GasCost     decimal.NullDecimal `json:"gas_cost"`
	OtherCosts  decimal.NullDecimal `json:"other_costs"`
	TotalCosts  decimal.Decimal     `json:"total_costs"`
	VATCosts    decimal.Decimal     `json:"vat_costs"`
	Income      decimal.Decimal     `json:"income"`

	RevenuePerKg     decimal.NullDecimal `json:"revenue_per_kg"`
	RevenuePerM2     decimal.NullDecimal `json:"revenue_per_m2"`
	FeedCostPerKg    decimal.NullDecimal `json:"feed_cost_per_kg"`
	FeedCostPerM2    decimal.NullDecimal `json:"feed_cost_per_m2"`
	ChicksCostPerKg  decimal.NullDecimal `json:"chicks_cost_per_kg"`
	ChicksCostPerM2  decimal.NullDecimal `json:"chicks_cost_per_m2"`
	VetCareCostPerKg decimal.NullDecimal `json:"vet_care_cost_per_kg"`
	VetCareCostPerM2 decimal.NullDecimal `json:"vet_care_cost_per_m2"`
	GasCostPerKg     decimal.NullDecimal `json:"gas_cost_per_kg"`
	GasCostPerM2     decimal.NullDecimal `json:"gas_cost_per_m2"`
	OtherCostsPerKg  decimal.NullDecimal `json:"other_costs_per_kg"`
	OtherCostsPerM2  decimal.NullDecimal `json:"other_costs_per_m2"`
	TotalCostsPerKg  decimal.NullDecimal `json:"total_costs_per_kg"`
	TotalCostsPerM2  decimal.NullDecimal `json:"total_costs_per_m2"`
	IncomePerKg      decimal.NullDecimal `json:"income_per_kg"`
	IncomePerM2      decimal.NullDecimal `json:"income_per_m2"`
}

// ProductionSale extends a SaleSummary with growth metrics.
type ProductionSale struct {
	SaleSummary

	SettlementCount    int64               `json:"settlement_count"`
	AvgWeight          decimal.Decimal     `json:"avg_weight"`
	StandardWeight     decimal.NullDecimal `json:"standard_weight"`
	AvgWeightDeviation decimal.NullDecimal `json:"avg_weight_deviation"`
}

// ProductionRow holds the flock performance view of one insertion.
// Ratios whose denominator is zero resolve to 0.
type ProductionRow struct {
	InsertionInfo

	PartSale  ProductionSale `json:"part_sale"`
	TotalSale ProductionSale `json:"total_sale"`

	CombinedSoldCount        int64           `json:"combined_sold_count"`
	CombinedSoldWeight       decimal.Decimal `json:"combined_sold_weight"`
	CombinedSettlementCount  int64           `json:"combined_settlement_count"`
	CombinedSettlementWeight decimal.Decimal `json:"combined_settlement_weight"`
	CombinedAvgWeight        decimal.Decimal `json:"combined_avg_weight"`
	CombinedAvgAgeInDays     decimal.Decimal `json:"combined_avg_age_in_days"`

	CycleDeadCount           int64           `json:"cycle_dead_count"`
	CycleDefectiveCount      int64           `json:"cycle_defective_count"`
	DeadPctCycle             decimal.Decimal `json:"dead_pct_cycle"`
	DefectivePctCycle        decimal.Decimal `json:"defective_pct_cycle"`
	DeadAndDefectivePctCycle decimal.Decimal `json:"dead_and_defective_pct_cycle"`
	TotalLosses              int64           `json:"total_losses"`
	SurvivalRatePct          decimal.Decimal `json:"survival_rate_pct"`

	FeedConsumedTons decimal.Decimal `json:"feed_consumed_tons"`
	FCRWithLosses    decimal.Decimal `json:"fcr_with_losses"`
	FCRWithoutLosses decimal.Decimal `json:"fcr_without_losses"`
	Points           decimal.Decimal `json:"points"`
	EWW              decimal.Decimal `json:"eww"`

	KgPerM2BeforeConf   decimal.Decimal `json:"kg_per_m2_before_conf"`
	KgPerM2AfterConf    decimal.Decimal `json:"kg_per_m2_after_conf"`
	GasConsumedLiters   decimal.Decimal `json:"gas_consumed_liters"`
	GasConsumptionPerM2 decimal.Decimal `json:"gas_consumption_per_m2"`

	EndCycleBirdBalance int64 `json:"end_cycle_bird_balance"`
}

// BalanceMismatch reports whether the birds placed do not reconcile with
// the birds sold or lost.
func (r ProductionRow) BalanceMismatch() bool {
	return r.EndCycleBirdBalance != 0
}

// RecordScope bounds the related-record fetches of one report.
type RecordScope struct {
	FarmIDs     []int64
	HenhouseIDs []int64
	Cycles      []Cycle
}
