package ports

import (
	"context"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
)

// TicketRepository defines the persistence contract for kitchen tickets.
type TicketRepository interface {
	Add(ctx context.Context, ticket *kitchen.Ticket) error

	// Update stores the board status and checklist of a ticket. Items are
	// never rewritten.
	Update(ctx context.Context, ticket *kitchen.Ticket) error

	Get(ctx context.Context, id kernel.UUID) (*kitchen.Ticket, error)

	// NextNumber reserves the next ticket number.
	NextNumber(ctx context.Context) (int, error)

	// ListByOrder returns the tickets of an order in dispatch order.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*kitchen.Ticket, error)
}
