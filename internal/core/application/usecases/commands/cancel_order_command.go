package commands

import (
	"errors"

	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand closes the active order without payment.
type CancelOrderCommand struct {
	order *order.Order

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(o *order.Order) (CancelOrderCommand, error) {
	if err := o.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{
		order: o,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Order() *order.Order {
	return c.order
}
