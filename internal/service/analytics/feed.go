package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// FeedBalance is the net feed an insertion consumed, both in tons and in
// invoiced value. Inconsistent carryover or transfer data can make either
// figure negative; it is reported unchanged.
type FeedBalance struct {
	Tons  decimal.Decimal
	Value decimal.Decimal
}

type feedMeasure struct {
	delivery  func(models.FeedDeliveryRecord) decimal.Decimal
	carryover func(models.FeedCarryoverRecord) decimal.Decimal
	transfer  func(models.FeedTransferRecord) decimal.Decimal
}

var (
	feedTons = feedMeasure{
		delivery:  func(r models.FeedDeliveryRecord) decimal.Decimal { return r.QuantityTons },
		carryover: func(r models.FeedCarryoverRecord) decimal.Decimal { return r.RemainingTons },
		transfer:  func(r models.FeedTransferRecord) decimal.Decimal { return r.Tons },
	}
	feedValue = feedMeasure{
		delivery:  func(r models.FeedDeliveryRecord) decimal.Decimal { return r.SubTotalValue },
		carryover: func(r models.FeedCarryoverRecord) decimal.Decimal { return r.RemainingValue },
		transfer:  func(r models.FeedTransferRecord) decimal.Decimal { return r.Value },
	}
)

// FeedConsumption applies the carryover formula to one henhouse cycle:
//
//	deliveries - carryover(this) + carryover(previous) - transfersOut + transfersIn
func FeedConsumption(key HouseCycleKey, l Lookups) FeedBalance {
	return FeedBalance{
		Tons:  netFeed(key, l, feedTons),
		Value: netFeed(key, l, feedValue),
	}
}

func netFeed(key HouseCycleKey, l Lookups, m feedMeasure) decimal.Decimal {
	return sumBy(l.FeedDeliveries.Get(key), m.delivery).
		Sub(sumBy(l.FeedCarryovers.Get(key), m.carryover)).
		Add(sumBy(l.FeedCarryovers.Get(key.Previous()), m.carryover)).
		Sub(sumBy(l.TransfersOut.Get(key), m.transfer)).
		Add(sumBy(l.TransfersIn.Get(key), m.transfer))
}
