package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// AreaIndex holds the henhouse floor area placed per farm cycle, counted
// over the insertions of the current report only.
type AreaIndex map[FarmCycleKey]decimal.Decimal

// BuildAreaIndex sums the area of each insertion's henhouse by farm cycle.
// Insertions whose henhouse is unknown contribute no area.
func BuildAreaIndex(insertions []models.FlockInsertion, henhouses map[int64]models.Henhouse) AreaIndex {
	index := make(AreaIndex)
	for _, ins := range insertions {
		key := FarmCycleKey{FarmID: ins.FarmID, Cycle: ins.Cycle}
		index[key] = index[key].Add(henhouses[ins.HenhouseID].AreaM2)
	}
	return index
}

// Allocate gives a henhouse of area m² its floor-area share of a farm
// cycle total. The result is null when the farm cycle has no area.
func (a AreaIndex) Allocate(key FarmCycleKey, total, area decimal.Decimal) decimal.NullDecimal {
	totalArea := a[key]
	if totalArea.IsZero() {
		return decimal.NullDecimal{}
	}
	return valid(total.Mul(area).Div(totalArea))
}

// AllocatedCosts are the shared farm costs charged to one henhouse.
type AllocatedCosts struct {
	GasCost     decimal.NullDecimal
	GasLiters   decimal.NullDecimal
	ChicksCost  decimal.NullDecimal
	VetCareCost decimal.NullDecimal
	Payroll     decimal.NullDecimal
	OtherCosts  decimal.NullDecimal
}

// AllocateCosts spreads the gas, payroll and production expenses of a farm
// cycle over the henhouse with the given area. Other costs are expenses
// outside the chick and vet categories plus the allocated payroll.
func (o Options) AllocateCosts(key FarmCycleKey, area decimal.Decimal, l Lookups) AllocatedCosts {
	allocate := func(total decimal.Decimal) decimal.NullDecimal {
		return l.Areas.Allocate(key, total, area)
	}

	gas := l.Gas.Get(key)
	expenses := l.Expenses.Get(key)

	chicks := expenseTotal(expenses, func(name string) bool { return sameExpenseType(name, o.ChickExpenseType) })
	vet := expenseTotal(expenses, func(name string) bool { return sameExpenseType(name, o.VetExpenseType) })
	other := expenseTotal(expenses, func(name string) bool { return !o.excludedFromOther(name) })
	payroll := allocate(sumBy(l.Payrolls.Get(key), models.PayrollRecord.NetCost))

	return AllocatedCosts{
		GasCost:     allocate(sumBy(gas, func(r models.GasConsumptionRecord) decimal.Decimal { return r.Cost })),
		GasLiters:   allocate(sumBy(gas, func(r models.GasConsumptionRecord) decimal.Decimal { return r.QuantityConsumed })),
		ChicksCost:  allocate(chicks),
		VetCareCost: allocate(vet),
		Payroll:     payroll,
		OtherCosts:  addNull(allocate(other), payroll),
	}
}

func (o Options) excludedFromOther(name string) bool {
	return sameExpenseType(name, o.ChickExpenseType) || sameExpenseType(name, o.VetExpenseType)
}

func expenseTotal(expenses []models.ProductionExpenseRecord, match func(name string) bool) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		if match(expense.ExpenseTypeName) {
			total = total.Add(expense.SubTotalValue)
		}
	}
	return total
}

func sameExpenseType(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
