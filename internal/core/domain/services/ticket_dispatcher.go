package services

import (
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"
)

var (
	// ErrNoNewItems is returned when an order has no pending lines to send.
	ErrNoNewItems = errs.NewValueIsInvalidError("no new items to dispatch")
	// ErrMissingTable is returned when a dine-in order is dispatched without a table.
	ErrMissingTable = errs.NewInvalidStateError("dine-in order", "without a table")
)

// TicketDispatcher sends the pending lines of an order to the kitchen.
//
// Business rules:
//   - Only pending lines are sent; a dispatch without any fails with ErrNoNewItems
//   - Dine-in orders need a bound table
//   - Every successful call yields exactly one new ticket; earlier tickets
//     are never touched
//
// Example usage:
//
//	dispatcher := services.NewTicketDispatcher()
//	ticket, err := dispatcher.Dispatch(o, kernel.NewUUID(), 12, labels, time.Now())
//	if errors.Is(err, services.ErrNoNewItems) {
//	    // nothing to send
//	}
type TicketDispatcher struct{}

func NewTicketDispatcher() TicketDispatcher {
	return TicketDispatcher{}
}

// Validate reports whether Dispatch would succeed on the order.
func (TicketDispatcher) Validate(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Status() != order.Open {
		return errs.NewInvalidStateError("order", o.Status().String())
	}
	if !o.HasPendingItems() {
		return ErrNoNewItems
	}
	if o.Type() == order.DineIn && o.TableID() == "" {
		return ErrMissingTable
	}
	return nil
}

// Dispatch builds the ticket from the pending lines and then marks those
// lines Dispatched on the order. The ticket is built first so a rejected
// ticket leaves the order untouched.
func (d TicketDispatcher) Dispatch(
	o *order.Order,
	ticketID kernel.UUID,
	number int,
	labels kitchen.Labels,
	now time.Time,
) (*kitchen.Ticket, error) {
	if err := d.Validate(o); err != nil {
		return nil, err
	}

	pending := o.PendingItems()
	items := make([]kitchen.Item, 0, len(pending))
	for _, l := range pending {
		items = append(items, kitchen.ItemFromLine(l))
	}

	ticket, err := kitchen.NewTicket(ticketID, number, o.ID(), items, labels, o.Type(), now)
	if err != nil {
		return nil, err
	}
	if _, err := o.MarkDispatched(); err != nil {
		return nil, err
	}
	return ticket, nil
}
