package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"
)

// DispatchOrderResult carries the order as stored after dispatch and the
// ticket it produced.
type DispatchOrderResult struct {
	Order  *order.Order
	Ticket *kitchen.Ticket
}

// DispatchOrderCommandHandler turns pending lines into a kitchen ticket.
//
// Within one transaction it rejects a table already held by another open
// order, reserves the next ticket number, marks the lines dispatched, stores
// the order (insert on first dispatch, update afterwards) and stores the
// ticket. Publishing the ticket and playing the audio cue happen after
// commit; their failures are logged and never undo the dispatch.
type DispatchOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	directory  ports.Directory
	publisher  ports.TicketPublisher
	notifier   ports.Notifier
	dispatcher services.TicketDispatcher
	clock      func() time.Time
	logger     *slog.Logger
}

func NewDispatchOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	directory ports.Directory,
	publisher ports.TicketPublisher,
	notifier ports.Notifier,
	clock func() time.Time,
	logger *slog.Logger,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		publisher:  publisher,
		notifier:   notifier,
		dispatcher: services.NewTicketDispatcher(),
		clock:      clock,
		logger:     logger.With("component", "dispatch_order"),
	}
}

// Handle dispatches a copy of the command's order. The copy is returned only
// when everything was committed; on error the caller keeps its order as is.
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) (DispatchOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchOrderResult{}, err
	}

	work := cmd.Order().Clone()
	if err := h.dispatcher.Validate(work); err != nil {
		return DispatchOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DispatchOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := h.ensureTableFree(ctx, uow.OrderRepository(), work); err != nil {
		return DispatchOrderResult{}, err
	}

	number, err := uow.TicketRepository().NextNumber(ctx)
	if err != nil {
		return DispatchOrderResult{}, err
	}

	ticket, err := h.dispatcher.Dispatch(work, kernel.NewUUID(), number, h.labels(work), h.clock())
	if err != nil {
		return DispatchOrderResult{}, err
	}

	if err = saveOrder(ctx, uow.OrderRepository(), work); err != nil {
		return DispatchOrderResult{}, err
	}

	if err = uow.TicketRepository().Add(ctx, ticket); err != nil {
		return DispatchOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DispatchOrderResult{}, err
	}

	h.announce(ctx, ticket)
	return DispatchOrderResult{Order: work, Ticket: ticket}, nil
}

func (h DispatchOrderCommandHandler) ensureTableFree(ctx context.Context, repo ports.OrderRepository, o *order.Order) error {
	if o.TableID() == "" {
		return nil
	}
	holder, err := repo.GetOpenByTable(ctx, o.TableID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !holder.IsEqual(o) {
		return errs.NewInvalidStateErrorWithCause("table "+o.TableID(), "occupied",
			fmt.Errorf("order %s is still open", holder.ID()))
	}
	return nil
}

func (h DispatchOrderCommandHandler) labels(o *order.Order) kitchen.Labels {
	labels := kitchen.Labels{Table: o.TableID(), Waiter: o.WaiterID()}
	if t, ok := h.directory.Table(o.TableID()); ok {
		labels.Table = t.Name
	}
	if w, ok := h.directory.Waiter(o.WaiterID()); ok {
		labels.Waiter = w.Name
	}
	return labels
}

func (h DispatchOrderCommandHandler) announce(ctx context.Context, ticket *kitchen.Ticket) {
	if err := h.publisher.PublishTicket(ctx, ticket); err != nil {
		h.logger.Error("failed to publish ticket", "ticket", ticket.Number(), "error", err)
	}
	if !h.directory.SoundEnabled() {
		return
	}
	if err := h.notifier.Play(ctx, ports.DispatchCue); err != nil {
		h.logger.Warn("failed to play dispatch cue", "error", err)
	}
}
