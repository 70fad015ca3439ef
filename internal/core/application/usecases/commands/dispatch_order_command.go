package commands

import (
	"errors"

	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand sends the pending lines of the active order to the
// kitchen.
//
// Example:
//
//	cmd, err := NewDispatchOrderCommand(activeOrder)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type DispatchOrderCommand struct {
	order *order.Order

	guard guard.ConstructorGuard
}

func NewDispatchOrderCommand(o *order.Order) (DispatchOrderCommand, error) {
	if err := o.Validate(); err != nil {
		return DispatchOrderCommand{}, err
	}
	return DispatchOrderCommand{
		order: o,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

// Order is the order as the terminal holds it. Handlers never mutate it.
func (c DispatchOrderCommand) Order() *order.Order {
	return c.order
}
