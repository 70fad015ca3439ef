// Package session owns the order a terminal is working on.
//
// A Controller is the only writer of its terminal's active order. Calls are
// serialized, and each one either applies completely or leaves the order as
// it was. After every change the cart is projected to the terminal's
// customer display.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/display"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoActiveOrder is returned by cart operations before an order was started.
	ErrNoActiveOrder = errs.NewInvalidStateErrorWithCause("session", "idle", errors.New("no active order"))
	// ErrUnsentItems is returned when leaving an order whose new lines were never sent.
	ErrUnsentItems = errs.NewInvalidStateErrorWithCause("cart", "has unsent items", errors.New("dispatch or clear it first"))
)

type (
	OrderFinder interface {
		GetOpenByTable(ctx context.Context, tableID string) (*order.Order, error)
	}

	Dispatcher interface {
		Handle(ctx context.Context, cmd commands.DispatchOrderCommand) (commands.DispatchOrderResult, error)
	}

	Finalizer interface {
		Handle(ctx context.Context, cmd commands.FinalizeSaleCommand) (commands.FinalizeSaleResult, error)
	}

	Canceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
)

// Controller runs one terminal's session.
type Controller struct {
	mu sync.Mutex

	terminal    string
	defaultType order.Type
	directory   ports.Directory
	orders      OrderFinder
	dispatcher  Dispatcher
	finalizer   Finalizer
	canceller   Canceller
	display     ports.DisplayPublisher
	clock       func() time.Time
	logger      *slog.Logger

	active *order.Order
}

func NewController(
	terminal string,
	directory ports.Directory,
	orders OrderFinder,
	dispatcher Dispatcher,
	finalizer Finalizer,
	canceller Canceller,
	displayPublisher ports.DisplayPublisher,
	clock func() time.Time,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		terminal:    terminal,
		defaultType: order.DineIn,
		directory:   directory,
		orders:      orders,
		dispatcher:  dispatcher,
		finalizer:   finalizer,
		canceller:   canceller,
		display:     displayPublisher,
		clock:       clock,
		logger:      logger.With("component", "session", "terminal", terminal),
	}
}

func (c *Controller) Terminal() string {
	return c.terminal
}

// Order returns a copy of the active order, or nil when the session is idle.
func (c *Controller) Order() *order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	return c.active.Clone()
}

// Start begins a new empty order of the given type.
func (c *Controller) Start(ctx context.Context, orderType order.Type) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLeavable(); err != nil {
		return err
	}
	o, err := order.NewOrder(kernel.NewUUID(), orderType, c.directory.TaxSchedule(), c.clock())
	if err != nil {
		return err
	}
	c.replace(ctx, o)
	return nil
}

// OpenTable makes the table's open order active, or starts a dine-in order
// bound to the table when it is free.
func (c *Controller) OpenTable(ctx context.Context, tableID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.directory.Table(tableID); !ok {
		return errs.NewObjectNotFoundError("table", tableID)
	}
	if c.active != nil && c.active.TableID() == tableID {
		return nil
	}
	if err := c.ensureLeavable(); err != nil {
		return err
	}

	existing, err := c.orders.GetOpenByTable(ctx, tableID)
	switch {
	case err == nil:
		c.replace(ctx, existing)
		return nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	o, err := order.NewOrder(kernel.NewUUID(), order.DineIn, c.directory.TaxSchedule(), c.clock())
	if err != nil {
		return err
	}
	if err = o.BindTable(tableID); err != nil {
		return err
	}
	c.replace(ctx, o)
	return nil
}

// AddItem adds one unit of a catalog entry, starting an order if the session
// is idle.
func (c *Controller) AddItem(ctx context.Context, menuItemID, variation string, addonIDs []string) (kernel.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.directory.MenuEntry(menuItemID)
	if !ok {
		return kernel.UUID{}, errs.NewObjectNotFoundError("menu item", menuItemID)
	}

	var work *order.Order
	if c.active == nil {
		o, err := order.NewOrder(kernel.NewUUID(), c.defaultType, c.directory.TaxSchedule(), c.clock())
		if err != nil {
			return kernel.UUID{}, err
		}
		work = o
	} else {
		work = c.active.Clone()
	}

	lineID, err := work.AddItem(entry, variation, addonIDs)
	if err != nil {
		return kernel.UUID{}, err
	}
	c.replace(ctx, work)
	return lineID, nil
}

func (c *Controller) UpdateQuantity(ctx context.Context, lineID kernel.UUID, qty int) error {
	return c.mutate(ctx, func(o *order.Order) error {
		return o.UpdateQuantity(lineID, qty)
	})
}

func (c *Controller) SetNote(ctx context.Context, lineID kernel.UUID, text string) error {
	return c.mutate(ctx, func(o *order.Order) error {
		return o.SetNote(lineID, text)
	})
}

func (c *Controller) RemoveItem(ctx context.Context, lineID kernel.UUID) error {
	return c.mutate(ctx, func(o *order.Order) error {
		return o.RemoveItem(lineID)
	})
}

func (c *Controller) SetType(ctx context.Context, t order.Type) error {
	return c.mutate(ctx, func(o *order.Order) error {
		return o.SetType(t)
	})
}

// BindTable attaches the active order to a free table.
func (c *Controller) BindTable(ctx context.Context, tableID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return ErrNoActiveOrder
	}
	if _, ok := c.directory.Table(tableID); !ok {
		return errs.NewObjectNotFoundError("table", tableID)
	}

	holder, err := c.orders.GetOpenByTable(ctx, tableID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if err == nil && !holder.IsEqual(c.active) {
		return errs.NewInvalidStateErrorWithCause("table "+tableID, "occupied",
			fmt.Errorf("order %s is still open", holder.ID()))
	}

	return c.apply(ctx, func(o *order.Order) error {
		return o.BindTable(tableID)
	})
}

func (c *Controller) ReleaseTable(ctx context.Context) error {
	return c.mutate(ctx, (*order.Order).ReleaseTable)
}

// AssignCustomer links a known customer; an empty ID unlinks.
func (c *Controller) AssignCustomer(ctx context.Context, customerID string) error {
	if customerID != "" {
		if _, ok := c.directory.Customer(customerID); !ok {
			return errs.NewObjectNotFoundError("customer", customerID)
		}
	}
	return c.mutate(ctx, func(o *order.Order) error {
		return o.AssignCustomer(customerID)
	})
}

func (c *Controller) AssignWaiter(ctx context.Context, waiterID string) error {
	if waiterID != "" {
		if _, ok := c.directory.Waiter(waiterID); !ok {
			return errs.NewObjectNotFoundError("waiter", waiterID)
		}
	}
	return c.mutate(ctx, func(o *order.Order) error {
		return o.AssignWaiter(waiterID)
	})
}

func (c *Controller) AssignDeliveryPartner(ctx context.Context, partnerID string) error {
	if partnerID != "" {
		if _, ok := c.directory.DeliveryPartner(partnerID); !ok {
			return errs.NewObjectNotFoundError("delivery partner", partnerID)
		}
	}
	return c.mutate(ctx, func(o *order.Order) error {
		return o.AssignDeliveryPartner(partnerID)
	})
}

func (c *Controller) ApplyDiscount(ctx context.Context, d billing.Discount) error {
	return c.mutate(ctx, func(o *order.Order) error {
		return o.ApplyDiscount(d)
	})
}

func (c *Controller) SetTip(ctx context.Context, tip decimal.Decimal) error {
	return c.mutate(ctx, func(o *order.Order) error {
		return o.SetTip(tip)
	})
}

// Clear empties the cart under a fresh order ID. An order that already has
// lines in the kitchen must be settled or cancelled instead.
func (c *Controller) Clear(ctx context.Context, keepTable bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil
	}
	if c.active.Status() == order.Open && c.active.KitchenStatus() == order.Sent {
		return errs.NewInvalidStateErrorWithCause("order", "sent to the kitchen",
			errors.New("settle or cancel it instead"))
	}
	return c.apply(ctx, func(o *order.Order) error {
		return o.Clear(keepTable, c.clock())
	})
}

// Dispatch sends the pending lines to the kitchen and returns the ticket.
func (c *Controller) Dispatch(ctx context.Context) (*kitchen.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil, services.ErrNoNewItems
	}
	cmd, err := commands.NewDispatchOrderCommand(c.active)
	if err != nil {
		return nil, err
	}
	result, err := c.dispatcher.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}
	c.replace(ctx, result.Order)
	return result.Ticket, nil
}

// Finalize records payments. A closed sale leaves the terminal with an
// empty cart; an unsettled one stays active with its payments.
func (c *Controller) Finalize(
	ctx context.Context,
	payments []order.Payment,
	tip decimal.Decimal,
	splits []*order.Split,
) (commands.FinalizeSaleResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return commands.FinalizeSaleResult{}, ErrNoActiveOrder
	}
	cmd, err := commands.NewFinalizeSaleCommand(c.active, payments, tip, splits)
	if err != nil {
		return commands.FinalizeSaleResult{}, err
	}
	result, err := c.finalizer.Handle(ctx, cmd)
	if err != nil {
		return commands.FinalizeSaleResult{}, err
	}

	if !result.Order.Status().IsClosed() {
		c.replace(ctx, result.Order)
		return result, nil
	}
	if err = c.reset(ctx, result.Order); err != nil {
		return commands.FinalizeSaleResult{}, err
	}
	return result, nil
}

// Cancel closes the active order without payment and empties the cart.
func (c *Controller) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return ErrNoActiveOrder
	}
	cmd, err := commands.NewCancelOrderCommand(c.active)
	if err != nil {
		return err
	}
	cancelled, err := c.canceller.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	return c.reset(ctx, cancelled)
}

func (c *Controller) mutate(ctx context.Context, op func(o *order.Order) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(ctx, op)
}

// apply runs op on a copy of the active order and keeps the copy only when
// op succeeded. Callers hold the lock.
func (c *Controller) apply(ctx context.Context, op func(o *order.Order) error) error {
	if c.active == nil {
		return ErrNoActiveOrder
	}
	work := c.active.Clone()
	if err := op(work); err != nil {
		return err
	}
	c.replace(ctx, work)
	return nil
}

// reset replaces a closed order with an empty cart of the same type.
func (c *Controller) reset(ctx context.Context, closed *order.Order) error {
	next := closed.Clone()
	if err := next.Clear(false, c.clock()); err != nil {
		return err
	}
	c.replace(ctx, next)
	return nil
}

func (c *Controller) ensureLeavable() error {
	if c.active != nil && c.active.Status() == order.Open && c.active.HasPendingItems() {
		return ErrUnsentItems
	}
	return nil
}

func (c *Controller) replace(ctx context.Context, o *order.Order) {
	c.active = o
	projection := display.FromOrder(c.terminal, o, c.clock())
	if err := c.display.Publish(ctx, projection); err != nil {
		c.logger.Warn("failed to publish display projection", "order", o.ID(), "error", err)
	}
}
