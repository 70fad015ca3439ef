package kernel

import (
	"fmt"

	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CurrencyEpsilon is the tolerance used when deciding whether two amounts
// reconcile (payments against a total, splits against a grand total).
var CurrencyEpsilon = decimal.RequireFromString("0.01")

// CurrencyPlaces is the number of decimal places shown on receipts and displays.
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Covers reports whether paid settles due, allowing CurrencyEpsilon of shortfall.
func Covers(paid, due decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(due.Sub(CurrencyEpsilon))
}

// Reconciles reports whether a and b differ by less than CurrencyEpsilon.
func Reconciles(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(CurrencyEpsilon)
}

// Percent returns rate% of amount.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, lo), hi)
}

// Sum adds all amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Format renders an amount at currency precision, half away from zero.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(CurrencyPlaces)
}

// NonNegative validates that amount is zero or positive.
func NonNegative(paramName string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(paramName, fmt.Errorf("%s is negative", amount))
	}
	return nil
}
