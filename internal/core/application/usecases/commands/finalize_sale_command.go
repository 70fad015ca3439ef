package commands

import (
	"errors"
	"slices"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrFinalizeSaleCommandIsNotConstructed = errors.New(
	"FinalizeSaleCommand must be created via NewFinalizeSaleCommand constructor",
)

// FinalizeSaleCommand records payments, tip and optional splits against the
// active order.
type FinalizeSaleCommand struct {
	order    *order.Order
	payments []order.Payment
	tip      decimal.Decimal
	splits   []*order.Split

	guard guard.ConstructorGuard
}

// NewFinalizeSaleCommand validates every payment and the tip up front.
func NewFinalizeSaleCommand(
	o *order.Order,
	payments []order.Payment,
	tip decimal.Decimal,
	splits []*order.Split,
) (FinalizeSaleCommand, error) {
	errList := []error{o.Validate(), kernel.NonNegative("tip", tip)}
	for _, p := range payments {
		_, err := order.NewPayment(p.Method, p.Amount)
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return FinalizeSaleCommand{}, err
	}

	return FinalizeSaleCommand{
		order:    o,
		payments: slices.Clone(payments),
		tip:      tip,
		splits:   slices.Clone(splits),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c FinalizeSaleCommand) Validate() error {
	return c.guard.Validate(ErrFinalizeSaleCommandIsNotConstructed)
}

func (c FinalizeSaleCommand) Order() *order.Order {
	return c.order
}

func (c FinalizeSaleCommand) Payments() []order.Payment {
	return slices.Clone(c.payments)
}

func (c FinalizeSaleCommand) Tip() decimal.Decimal {
	return c.tip
}

func (c FinalizeSaleCommand) Splits() []*order.Split {
	return slices.Clone(c.splits)
}

// Methods lists every payment method used, splits included.
func (c FinalizeSaleCommand) Methods() []string {
	var methods []string
	for _, p := range c.payments {
		methods = append(methods, p.Method)
	}
	for _, s := range c.splits {
		for _, p := range s.Payments() {
			methods = append(methods, p.Method)
		}
	}
	return methods
}
