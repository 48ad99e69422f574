package analytics

import "github.com/shopspring/decimal"

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Financial ratios are carried as decimal.NullDecimal and become null when
// their denominator is zero. Production ratios go through divideOrZero and
// become 0 instead. Both reports are consumed as-is by operators, so the two
// conventions are kept apart rather than unified.

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func divide(num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		return decimal.NullDecimal{}
	}
	return valid(num.Div(den))
}

func divideNull(num decimal.NullDecimal, den decimal.Decimal) decimal.NullDecimal {
	if !num.Valid {
		return decimal.NullDecimal{}
	}
	return divide(num.Decimal, den)
}

func subtractNull(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	return valid(a.Decimal.Sub(b.Decimal))
}

func addNull(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid && !b.Valid {
		return decimal.NullDecimal{}
	}
	return valid(orZero(a).Add(orZero(b)))
}

func orZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

func divideOrZero(num, den decimal.Decimal) decimal.Decimal {
	return orZero(divide(num, den))
}

func count(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// sumBy totals a decimal projection of items. lo.SumBy only accepts
// primitive numeric types.
func sumBy[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(amount(item))
	}
	return total
}
