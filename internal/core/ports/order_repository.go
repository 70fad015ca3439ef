// Package ports defines the contracts between the POS core and its
// infrastructure: repositories, the unit of work, publishers and the
// external collaborators the core consumes or notifies.
package ports

import (
	"context"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its lines, payments and splits.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update replaces the stored state of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Exists reports whether the order was stored before.
	Exists(ctx context.Context, id kernel.UUID) (bool, error)

	// Get retrieves an order by ID, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetOpenByTable retrieves the open order bound to a table, or an
	// errs.ObjectNotFoundError when the table is free.
	GetOpenByTable(ctx context.Context, tableID string) (*order.Order, error)
}
