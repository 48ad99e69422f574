package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

func TestAggregateSales(t *testing.T) {
	ins := models.FlockInsertion{ID: 1, FarmID: 1, HenhouseID: 10, Cycle: cycle2024First, InsertionDate: day(2024, 1, 1), Quantity: 1000}

	t.Run("weights prices by settlement weight", func(t *testing.T) {
		sales := []models.SaleRecord{
			{Type: models.SaleTotal, SaleDate: day(2024, 2, 10), Quantity: 300, Weight: dec("900"), FarmerWeight: dec("905"),
				DeadCount: 2, DeadWeight: dec("6"), ConfiscatedCount: 1, ConfiscatedWeight: dec("4"),
				BasePrice: dec("4.00"), PriceWithExtras: dec("4.50")},
			{Type: models.SaleTotal, SaleDate: day(2024, 2, 7), Quantity: 200, Weight: dec("600"), FarmerWeight: dec("598"),
				BasePrice: dec("5.00"), PriceWithExtras: dec("5.20")},
			{Type: models.SalePart, SaleDate: day(2024, 1, 20), Quantity: 50, Weight: dec("100"), BasePrice: dec("9")},
		}

		got := AggregateSales(ins, sales, models.SaleTotal)

		require.NotNil(t, got.SaleDate)
		assert.Equal(t, day(2024, 2, 7), *got.SaleDate)
		assert.Equal(t, 36, got.AgeInDays)
		assert.Equal(t, int64(500), got.SoldCount)
		assertDecimal(t, "1500", got.SoldWeight)
		assertDecimal(t, "1503", got.FarmerWeight)
		assert.Equal(t, int64(2), got.DeadCount)
		assertDecimal(t, "6", got.DeadWeight)
		assert.Equal(t, int64(1), got.ConfiscatedCount)
		assertDecimal(t, "4", got.ConfiscatedWeight)
		assertDecimal(t, "1490", got.SettlementWeight)
		assert.Equal(t, int64(497), got.SettlementCount())

		// (890*4 + 600*5) / 1490
		want := dec("890").Mul(dec("4")).Add(dec("600").Mul(dec("5"))).Div(dec("1490"))
		assertNullDecimal(t, want.String(), got.WeightedBasePrice)
		// revenue = 890*4.5 + 600*5.2
		assertDecimal(t, "7125", got.Revenue)
		assertNullDecimal(t, dec("7125").Div(dec("1490")).String(), got.WeightedFinalPrice)
	})

	t.Run("no sales of the type", func(t *testing.T) {
		sales := []models.SaleRecord{{Type: models.SalePart, SaleDate: day(2024, 1, 20), Quantity: 50, Weight: dec("100")}}

		got := AggregateSales(ins, sales, models.SaleTotal)

		assert.False(t, got.Sold())
		assert.Nil(t, got.SaleDate)
		assert.Zero(t, got.SoldCount)
		assert.True(t, got.SoldWeight.IsZero())
		assert.False(t, got.WeightedBasePrice.Valid)
		assert.False(t, got.WeightedFinalPrice.Valid)
		assert.True(t, got.Revenue.IsZero())
	})

	t.Run("zero settlement weight leaves prices null", func(t *testing.T) {
		sales := []models.SaleRecord{{
			Type: models.SalePart, SaleDate: day(2024, 1, 20), Quantity: 10,
			Weight: dec("20"), DeadWeight: dec("15"), ConfiscatedWeight: dec("5"),
			BasePrice: dec("4"), PriceWithExtras: dec("4.4"),
		}}

		got := AggregateSales(ins, sales, models.SalePart)

		require.NotNil(t, got.SaleDate)
		assert.Equal(t, 18, got.AgeInDays)
		assert.True(t, got.SettlementWeight.IsZero())
		assertDecimal(t, "20", got.SoldWeight)
		assert.False(t, got.WeightedBasePrice.Valid)
		assert.False(t, got.WeightedFinalPrice.Valid)
	})

	t.Run("negative settlement weight is not clamped", func(t *testing.T) {
		sales := []models.SaleRecord{{Type: models.SalePart, SaleDate: day(2024, 1, 20), Weight: dec("10"), DeadWeight: dec("12")}}

		got := AggregateSales(ins, sales, models.SalePart)

		assertDecimal(t, "-2", got.SettlementWeight)
	})
}

func TestAgeInDaysIgnoresTimeOfDay(t *testing.T) {
	placed := day(2024, 3, 1).Add(17 * time.Hour)
	sold := day(2024, 4, 5).Add(2 * time.Hour)

	assert.Equal(t, 34, AgeInDays(placed, sold))
	assert.Equal(t, -1, AgeInDays(placed, placed))
}
