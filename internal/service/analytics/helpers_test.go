package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertNullDecimal(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	if !assert.True(t, got.Valid, "want %s, got null", want) {
		return
	}
	assertDecimal(t, want, got.Decimal)
}

var cycle2024First = models.Cycle{Identifier: 1, Year: 2024}
