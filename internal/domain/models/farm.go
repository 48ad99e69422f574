package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType distinguishes partial thinning sales from the final depopulation sale.
type SaleType string

const (
	SalePart  SaleType = "PartSale"
	SaleTotal SaleType = "TotalSale"
)

// FlockInsertion is one batch of birds placed into one henhouse for one cycle.
type FlockInsertion struct {
	ID            int64     `bson:"_id"`
	FarmID        int64     `bson:"farm_id"`
	HenhouseID    int64     `bson:"henhouse_id"`
	Cycle         Cycle     `bson:"cycle"`
	HatcheryID    int64     `bson:"hatchery_id"`
	InsertionDate time.Time `bson:"insertion_date"`
	Quantity      int64     `bson:"quantity"`
}

// Henhouse is a building on a farm.
type Henhouse struct {
	ID     int64           `bson:"_id"`
	FarmID int64           `bson:"farm_id"`
	Name   string          `bson:"name"`
	AreaM2 decimal.Decimal `bson:"area_m2"`
}

// SaleRecord is a single slaughterhouse delivery for a henhouse cycle.
type SaleRecord struct {
	ID                int64           `bson:"_id"`
	FarmID            int64           `bson:"farm_id"`
	HenhouseID        int64           `bson:"henhouse_id"`
	Cycle             Cycle           `bson:"cycle"`
	Type              SaleType        `bson:"type"`
	SaleDate          time.Time       `bson:"sale_date"`
	Quantity          int64           `bson:"quantity"`
	Weight            decimal.Decimal `bson:"weight"`
	FarmerWeight      decimal.Decimal `bson:"farmer_weight"`
	DeadCount         int64           `bson:"dead_count"`
	DeadWeight        decimal.Decimal `bson:"dead_weight"`
	ConfiscatedCount  int64           `bson:"confiscated_count"`
	ConfiscatedWeight decimal.Decimal `bson:"confiscated_weight"`
	BasePrice         decimal.Decimal `bson:"base_price"`
	PriceWithExtras   decimal.Decimal `bson:"price_with_extras"`
}

// SettlementWeight is the weight eligible for payment. It is not clamped at zero.
func (s SaleRecord) SettlementWeight() decimal.Decimal {
	return s.Weight.Sub(s.DeadWeight).Sub(s.ConfiscatedWeight)
}

// FlockLossRecord captures mortality and culls during grow-out.
type FlockLossRecord struct {
	ID             int64 `bson:"_id"`
	FarmID         int64 `bson:"farm_id"`
	HenhouseID     int64 `bson:"henhouse_id"`
	Cycle          Cycle `bson:"cycle"`
	DeadCount      int64 `bson:"dead_count"`
	DefectiveCount int64 `bson:"defective_count"`
}

// FeedDeliveryRecord is invoiced feed received by a henhouse.
type FeedDeliveryRecord struct {
	ID            int64           `bson:"_id"`
	FarmID        int64           `bson:"farm_id"`
	HenhouseID    int64           `bson:"henhouse_id"`
	Cycle         Cycle           `bson:"cycle"`
	QuantityTons  decimal.Decimal `bson:"quantity_tons"`
	SubTotalValue decimal.Decimal `bson:"sub_total_value"`
}

// FeedCarryoverRecord is feed left in the silo when a cycle was closed.
type FeedCarryoverRecord struct {
	ID             int64           `bson:"_id"`
	FarmID         int64           `bson:"farm_id"`
	HenhouseID     int64           `bson:"henhouse_id"`
	Cycle          Cycle           `bson:"cycle"`
	RemainingTons  decimal.Decimal `bson:"remaining_tons"`
	RemainingValue decimal.Decimal `bson:"remaining_value"`
}

// FeedTransferRecord moves feed from one henhouse cycle to another.
type FeedTransferRecord struct {
	ID             int64           `bson:"_id"`
	FromFarmID     int64           `bson:"from_farm_id"`
	FromHenhouseID int64           `bson:"from_henhouse_id"`
	FromCycle      Cycle           `bson:"from_cycle"`
	ToFarmID       int64           `bson:"to_farm_id"`
	ToHenhouseID   int64           `bson:"to_henhouse_id"`
	ToCycle        Cycle           `bson:"to_cycle"`
	Tons           decimal.Decimal `bson:"tons"`
	Value          decimal.Decimal `bson:"value"`
}

// GasConsumptionRecord is heating gas used by a whole farm during a cycle.
type GasConsumptionRecord struct {
	ID               int64           `bson:"_id"`
	FarmID           int64           `bson:"farm_id"`
	Cycle            Cycle           `bson:"cycle"`
	QuantityConsumed decimal.Decimal `bson:"quantity_consumed"`
	Cost             decimal.Decimal `bson:"cost"`
}

// PayrollRecord is one employee payslip charged to a farm cycle.
type PayrollRecord struct {
	ID                 int64           `bson:"_id"`
	FarmID             int64           `bson:"farm_id"`
	Cycle              Cycle           `bson:"cycle"`
	BankTransferAmount decimal.Decimal `bson:"bank_transfer_amount"`
	BonusAmount        decimal.Decimal `bson:"bonus_amount"`
	OvertimePay        decimal.Decimal `bson:"overtime_pay"`
	Deductions         decimal.Decimal `bson:"deductions"`
	OtherAllowances    decimal.Decimal `bson:"other_allowances"`
}

// NetCost is the payroll amount charged to production.
func (p PayrollRecord) NetCost() decimal.Decimal {
	return p.BankTransferAmount.
		Add(p.BonusAmount).
		Add(p.OvertimePay).
		Sub(p.Deductions).
		Add(p.OtherAllowances)
}

// ProductionExpenseRecord is a categorized farm-level production expense.
type ProductionExpenseRecord struct {
	ID              int64           `bson:"_id"`
	FarmID          int64           `bson:"farm_id"`
	Cycle           Cycle           `bson:"cycle"`
	ExpenseTypeName string          `bson:"expense_type_name"`
	SubTotalValue   decimal.Decimal `bson:"sub_total_value"`
}

// WeightStandardRecord is one point of the breed growth curve.
type WeightStandardRecord struct {
	Day         int             `bson:"day"`
	WeightGrams decimal.Decimal `bson:"weight_grams"`
}
