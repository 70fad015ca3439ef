// Package commands contains the use cases that change state: dispatching an
// order to the kitchen, finalizing or cancelling a sale, moving tickets
// across the kitchen board and retrying sales that could not be recorded.
// Every handler validates its command, works inside one unit of work and
// only talks to publishers once the transaction is committed.
package commands

import (
	"context"

	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle of a unit of work.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	TicketRepoFactory interface {
		TicketRepository() ports.TicketRepository
	}

	LedgerFactory interface {
		CustomerLedger() ports.CustomerLedger
	}

	// OrderUoW stores orders only.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DispatchUoW stores an order together with the ticket it produced.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		TicketRepoFactory
	}

	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// SettlementUoW stores a finalized order together with the customer due.
	SettlementUoW interface {
		TxManager
		OrderRepoFactory
		LedgerFactory
	}

	SettlementUoWFactory interface {
		Create() SettlementUoW
	}

	// TicketUoW changes kitchen tickets only.
	TicketUoW interface {
		TxManager
		TicketRepoFactory
	}

	TicketUoWFactory interface {
		Create() TicketUoW
	}
)

// saveOrder inserts the order on its first write and updates it afterwards.
func saveOrder(ctx context.Context, repo ports.OrderRepository, o *order.Order) error {
	exists, err := repo.Exists(ctx, o.ID())
	if err != nil {
		return err
	}
	if exists {
		return repo.Update(ctx, o)
	}
	return repo.Add(ctx, o)
}
