package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

func allocationFixture() Dataset {
	return Dataset{
		Insertions: []models.FlockInsertion{
			{ID: 1, FarmID: 1, HenhouseID: 10, Cycle: cycle2024First},
			{ID: 2, FarmID: 1, HenhouseID: 11, Cycle: cycle2024First},
		},
		Henhouses: []models.Henhouse{
			{ID: 10, FarmID: 1, AreaM2: dec("100")},
			{ID: 11, FarmID: 1, AreaM2: dec("300")},
		},
	}
}

func TestAllocateSplitsByAreaAndSumsToTotal(t *testing.T) {
	l := BuildLookups(allocationFixture())
	key := FarmCycleKey{FarmID: 1, Cycle: cycle2024First}

	small := l.Areas.Allocate(key, dec("400"), dec("100"))
	large := l.Areas.Allocate(key, dec("400"), dec("300"))

	assertNullDecimal(t, "100", small)
	assertNullDecimal(t, "300", large)
	assertDecimal(t, "400", small.Decimal.Add(large.Decimal))
}

func TestAllocateWithoutAreaIsNull(t *testing.T) {
	ds := allocationFixture()
	ds.Henhouses = nil
	l := BuildLookups(ds)

	got := l.Areas.Allocate(FarmCycleKey{FarmID: 1, Cycle: cycle2024First}, dec("400"), dec("100"))

	assert.False(t, got.Valid)
}

func TestAllocateCosts(t *testing.T) {
	ds := allocationFixture()
	ds.Gas = []models.GasConsumptionRecord{
		{FarmID: 1, Cycle: cycle2024First, QuantityConsumed: dec("2000"), Cost: dec("800")},
	}
	ds.Payrolls = []models.PayrollRecord{
		{FarmID: 1, Cycle: cycle2024First, BankTransferAmount: dec("3000"), BonusAmount: dec("200"),
			OvertimePay: dec("100"), Deductions: dec("500"), OtherAllowances: dec("400")},
		{FarmID: 1, Cycle: cycle2024First, BankTransferAmount: dec("800")},
	}
	ds.Expenses = []models.ProductionExpenseRecord{
		{FarmID: 1, Cycle: cycle2024First, ExpenseTypeName: "Chick Purchase", SubTotalValue: dec("12000")},
		{FarmID: 1, Cycle: cycle2024First, ExpenseTypeName: " veterinary service ", SubTotalValue: dec("1600")},
		{FarmID: 1, Cycle: cycle2024First, ExpenseTypeName: "electricity", SubTotalValue: dec("1000")},
		{FarmID: 1, Cycle: cycle2024First, ExpenseTypeName: "bedding", SubTotalValue: dec("600")},
	}
	l := BuildLookups(ds)

	got := DefaultOptions().AllocateCosts(FarmCycleKey{FarmID: 1, Cycle: cycle2024First}, dec("100"), l)

	assertNullDecimal(t, "200", got.GasCost)
	assertNullDecimal(t, "500", got.GasLiters)
	assertNullDecimal(t, "3000", got.ChicksCost)
	assertNullDecimal(t, "400", got.VetCareCost)
	// payroll net 3200 + 800 = 4000, a quarter of it
	assertNullDecimal(t, "1000", got.Payroll)
	// (1000 + 600) / 4 + 1000
	assertNullDecimal(t, "1400", got.OtherCosts)
}

func TestAllocateCostsWithoutRecordsIsZero(t *testing.T) {
	l := BuildLookups(allocationFixture())

	got := DefaultOptions().AllocateCosts(FarmCycleKey{FarmID: 1, Cycle: cycle2024First}, dec("300"), l)

	assertNullDecimal(t, "0", got.GasCost)
	assertNullDecimal(t, "0", got.OtherCosts)
}

func TestPayrollNetCost(t *testing.T) {
	p := models.PayrollRecord{
		BankTransferAmount: dec("1000"),
		BonusAmount:        dec("50"),
		OvertimePay:        dec("25"),
		Deductions:         dec("75"),
		OtherAllowances:    dec("10"),
	}

	assertDecimal(t, "1010", p.NetCost())
}
