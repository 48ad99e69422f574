package analytics

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// HouseCycleKey addresses records kept per henhouse and cycle.
type HouseCycleKey struct {
	FarmID     int64
	HenhouseID int64
	Cycle      models.Cycle
}

// FarmCycleKey addresses farm-level records of one cycle.
type FarmCycleKey struct {
	FarmID int64
	Cycle  models.Cycle
}

// KeyOf returns the henhouse-cycle key of an insertion.
func KeyOf(ins models.FlockInsertion) HouseCycleKey {
	return HouseCycleKey{FarmID: ins.FarmID, HenhouseID: ins.HenhouseID, Cycle: ins.Cycle}
}

// Previous points at the same henhouse one cycle earlier, wrapping across years.
func (k HouseCycleKey) Previous() HouseCycleKey {
	k.Cycle = k.Cycle.Previous()
	return k
}

// Farm drops the henhouse from the key.
func (k HouseCycleKey) Farm() FarmCycleKey {
	return FarmCycleKey{FarmID: k.FarmID, Cycle: k.Cycle}
}

// Lookup is a multimap from a structural key to every record indexed under it.
type Lookup[K comparable, V any] map[K][]V

// Get returns the records stored under key, or nil.
func (l Lookup[K, V]) Get(key K) []V {
	return l[key]
}

func groupBy[K comparable, V any](items []V, key func(V) K) Lookup[K, V] {
	return Lookup[K, V](lo.GroupBy(items, key))
}

// Dataset is the snapshot a single report invocation reads from.
type Dataset struct {
	Insertions      []models.FlockInsertion
	Henhouses       []models.Henhouse
	Sales           []models.SaleRecord
	Losses          []models.FlockLossRecord
	FeedDeliveries  []models.FeedDeliveryRecord
	FeedCarryovers  []models.FeedCarryoverRecord
	FeedTransfers   []models.FeedTransferRecord
	Gas             []models.GasConsumptionRecord
	Payrolls        []models.PayrollRecord
	Expenses        []models.ProductionExpenseRecord
	WeightStandards []models.WeightStandardRecord
}

// Lookups indexes a Dataset by composite key.
//
// Carryover is keyed by henhouse and cycle value, so the previous-cycle
// lookup is FeedCarryovers.Get(key.Previous()) on the same index.
type Lookups struct {
	Henhouses       map[int64]models.Henhouse
	Sales           Lookup[HouseCycleKey, models.SaleRecord]
	Losses          Lookup[HouseCycleKey, models.FlockLossRecord]
	FeedDeliveries  Lookup[HouseCycleKey, models.FeedDeliveryRecord]
	FeedCarryovers  Lookup[HouseCycleKey, models.FeedCarryoverRecord]
	TransfersOut    Lookup[HouseCycleKey, models.FeedTransferRecord]
	TransfersIn     Lookup[HouseCycleKey, models.FeedTransferRecord]
	Gas             Lookup[FarmCycleKey, models.GasConsumptionRecord]
	Payrolls        Lookup[FarmCycleKey, models.PayrollRecord]
	Expenses        Lookup[FarmCycleKey, models.ProductionExpenseRecord]
	WeightStandards map[int]decimal.Decimal
	Areas           AreaIndex
}

// BuildLookups indexes every record list of ds. It does not mutate ds.
func BuildLookups(ds Dataset) Lookups {
	henhouses := lo.KeyBy(ds.Henhouses, func(h models.Henhouse) int64 { return h.ID })

	return Lookups{
		Henhouses: henhouses,
		Sales: groupBy(ds.Sales, func(r models.SaleRecord) HouseCycleKey {
			return HouseCycleKey{FarmID: r.FarmID, HenhouseID: r.HenhouseID, Cycle: r.Cycle}
		}),
		Losses: groupBy(ds.Losses, func(r models.FlockLossRecord) HouseCycleKey {
			return HouseCycleKey{FarmID: r.FarmID, HenhouseID: r.HenhouseID, Cycle: r.Cycle}
		}),
		FeedDeliveries: groupBy(ds.FeedDeliveries, func(r models.FeedDeliveryRecord) HouseCycleKey {
			return HouseCycleKey{FarmID: r.FarmID, HenhouseID: r.HenhouseID, Cycle: r.Cycle}
		}),
		FeedCarryovers: groupBy(ds.FeedCarryovers, func(r models.FeedCarryoverRecord) HouseCycleKey {
			return HouseCycleKey{FarmID: r.FarmID, HenhouseID: r.HenhouseID, Cycle: r.Cycle}
		}),
		TransfersOut: groupBy(ds.FeedTransfers, func(r models.FeedTransferRecord) HouseCycleKey {
			return HouseCycleKey{FarmID: r.FromFarmID, HenhouseID: r.FromHenhouseID, Cycle: r.FromCycle}
		}),
		TransfersIn: groupBy(ds.FeedTransfers, func(r models.FeedTransferRecord) HouseCycleKey {
			return HouseCycleKey{FarmID: r.ToFarmID, HenhouseID: r.ToHenhouseID, Cycle: r.ToCycle}
		}),
		Gas: groupBy(ds.Gas, func(r models.GasConsumptionRecord) FarmCycleKey {
			return FarmCycleKey{FarmID: r.FarmID, Cycle: r.Cycle}
		}),
		Payrolls: groupBy(ds.Payrolls, func(r models.PayrollRecord) FarmCycleKey {
			return FarmCycleKey{FarmID: r.FarmID, Cycle: r.Cycle}
		}),
		Expenses: groupBy(ds.Expenses, func(r models.ProductionExpenseRecord) FarmCycleKey {
			return FarmCycleKey{FarmID: r.FarmID, Cycle: r.Cycle}
		}),
		WeightStandards: lo.SliceToMap(ds.WeightStandards, func(r models.WeightStandardRecord) (int, decimal.Decimal) {
			return r.Day, r.WeightGrams
		}),
		Areas: BuildAreaIndex(ds.Insertions, henhouses),
	}
}

// RecordScopeOf lists the farms, henhouses and cycles the related-record
// fetches must cover for the given insertions, including each previous cycle
// for the carryover credit.
func RecordScopeOf(insertions []models.FlockInsertion) models.RecordScope {
	cycles := make([]models.Cycle, 0, len(insertions)*2)
	for _, ins := range insertions {
		cycles = append(cycles, ins.Cycle, ins.Cycle.Previous())
	}
	return models.RecordScope{
		FarmIDs:     lo.Uniq(lo.Map(insertions, func(ins models.FlockInsertion, _ int) int64 { return ins.FarmID })),
		HenhouseIDs: lo.Uniq(lo.Map(insertions, func(ins models.FlockInsertion, _ int) int64 { return ins.HenhouseID })),
		Cycles:      lo.Uniq(cycles),
	}
}
