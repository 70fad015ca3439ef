package services

import (
	"fmt"

	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrNothingToSettle is returned when finalizing an order without items.
var ErrNothingToSettle = errs.NewValueIsRequiredError("order items")

// Settlement is the outcome of a finalize call.
type Settlement struct {
	Totals  billing.Totals
	Paid    decimal.Decimal
	Settled bool
	// Balance is Paid minus the grand total: positive is change owed, negative
	// is a shortfall.
	Balance decimal.Decimal
	Change  decimal.Decimal
	Due     decimal.Decimal
	// OnAccount is set when the shortfall was charged to the linked customer.
	OnAccount bool
}

// SettlementEngine records payments against an order.
//
// Business rules:
//   - Totals are recomputed with the given tip before anything is compared
//   - Split amounts must add up to the grand total within kernel.CurrencyEpsilon
//   - Without splits the order is settled when payments cover the grand total
//     within kernel.CurrencyEpsilon; with splits, when every split is paid
//   - A shortfall is recorded as due; with a linked customer the order closes
//     on account, otherwise it stays open
//   - Payments add to those tendered by earlier short finalizes of the order
//   - An order without items cannot be finalized
type SettlementEngine struct{}

func NewSettlementEngine() SettlementEngine {
	return SettlementEngine{}
}

// Finalize validates the payments and splits against the order and applies
// the result to it in one step.
func (SettlementEngine) Finalize(
	o *order.Order,
	payments []order.Payment,
	tip decimal.Decimal,
	splits []*order.Split,
) (Settlement, error) {
	if err := o.Validate(); err != nil {
		return Settlement{}, err
	}
	if o.Status() != order.Open {
		return Settlement{}, errs.NewInvalidStateError("order", o.Status().String())
	}
	if len(o.Items()) == 0 {
		return Settlement{}, ErrNothingToSettle
	}
	if err := kernel.NonNegative("tip", tip); err != nil {
		return Settlement{}, err
	}
	for _, p := range payments {
		if _, err := order.NewPayment(p.Method, p.Amount); err != nil {
			return Settlement{}, err
		}
	}

	totals := o.Quote(tip)
	if err := validateSplits(o, splits, totals.GrandTotal); err != nil {
		return Settlement{}, err
	}

	tendered := append(o.Payments(), payments...)
	paid := order.SumPayments(tendered)
	for _, s := range splits {
		paid = paid.Add(s.PaidAmount())
	}

	var settled bool
	if len(splits) > 0 {
		settled = true
		for _, s := range splits {
			settled = settled && s.Paid()
		}
	} else {
		settled = kernel.Covers(paid, totals.GrandTotal)
	}

	result := Settlement{
		Totals:  totals,
		Paid:    paid,
		Settled: settled,
		Balance: paid.Sub(totals.GrandTotal),
		Change:  decimal.Zero,
		Due:     decimal.Zero,
	}
	if settled {
		result.Change = decimal.Max(result.Balance, decimal.Zero)
	} else {
		result.Due = decimal.Max(result.Balance.Neg(), decimal.Zero)
		result.OnAccount = o.CustomerID() != ""
	}

	if err := o.ApplySettlement(order.SettlementParams{
		Tip:      tip,
		Payments: tendered,
		Splits:   splits,
		Settled:  settled,
		Due:      result.Due,
	}); err != nil {
		return Settlement{}, err
	}
	return result, nil
}

func validateSplits(o *order.Order, splits []*order.Split, grandTotal decimal.Decimal) error {
	if len(splits) == 0 {
		return nil
	}

	sum := decimal.Zero
	claimed := make(map[kernel.UUID]struct{})
	for i, s := range splits {
		if s == nil {
			return errs.NewValueIsRequiredError(fmt.Sprintf("split %d", i))
		}
		sum = sum.Add(s.Amount())
		for _, id := range s.LineIDs() {
			if _, ok := o.Item(id); !ok {
				return errs.NewObjectNotFoundError("line", id)
			}
			if _, dup := claimed[id]; dup {
				return errs.NewValueIsInvalidErrorWithCause("split", fmt.Errorf("line %s is in more than one split", id))
			}
			claimed[id] = struct{}{}
		}
	}

	if !kernel.Reconciles(sum, grandTotal) {
		return errs.NewBalanceMismatchError(grandTotal, sum)
	}
	return nil
}
