package commands

import (
	"context"

	"pos/internal/core/domain/model/kitchen"
)

// CheckTicketUnitCommandHandler edits the kitchen checklist of a ticket.
type CheckTicketUnitCommandHandler struct {
	uowFactory TicketUoWFactory
}

func NewCheckTicketUnitCommandHandler(uowFactory TicketUoWFactory) CheckTicketUnitCommandHandler {
	return CheckTicketUnitCommandHandler{uowFactory: uowFactory}
}

func (h CheckTicketUnitCommandHandler) Handle(ctx context.Context, cmd CheckTicketUnitCommand) (*kitchen.Ticket, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TicketRepository()
	ticket, err := repo.Get(ctx, cmd.TicketID())
	if err != nil {
		return nil, err
	}

	if cmd.Checked() {
		err = ticket.Check(cmd.UnitKey())
	} else {
		err = ticket.Uncheck(cmd.UnitKey())
	}
	if err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ticket, nil
}
