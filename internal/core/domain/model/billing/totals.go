package billing

import (
	"pos/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Line is the billing view of a cart line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the outcome of Calculate.
type Totals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	TaxLines   []TaxLine
	Tip        decimal.Decimal
	GrandTotal decimal.Decimal
}

// Taxable is the base every tax line is computed on.
func (t Totals) Taxable() decimal.Decimal {
	return t.Subtotal.Sub(t.Discount)
}

func (t Totals) TaxTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.TaxLines {
		total = total.Add(l.Amount)
	}
	return total
}

// Calculate derives the totals of an order. It has no side effects and
// returns equal results for equal inputs.
func Calculate(lines []Line, discount Discount, schedule TaxSchedule, tip decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	discountAmount := discount.Amount(subtotal)
	taxLines := schedule.Apply(subtotal.Sub(discountAmount))

	totals := Totals{
		Subtotal: subtotal,
		Discount: discountAmount,
		TaxLines: taxLines,
		Tip:      tip,
	}
	totals.GrandTotal = kernel.Sum(subtotal.Sub(discountAmount), totals.TaxTotal(), tip)
	return totals
}
