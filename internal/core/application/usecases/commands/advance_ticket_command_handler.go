package commands

import (
	"context"

	"pos/internal/core/domain/model/kitchen"
)

// AdvanceTicketResult reports the ticket after the action. Moved is false
// when a ready action was held back by an incomplete checklist.
type AdvanceTicketResult struct {
	Ticket *kitchen.Ticket
	Moved  bool
}

// AdvanceTicketCommandHandler moves a ticket across the kitchen board.
type AdvanceTicketCommandHandler struct {
	uowFactory TicketUoWFactory
}

func NewAdvanceTicketCommandHandler(uowFactory TicketUoWFactory) AdvanceTicketCommandHandler {
	return AdvanceTicketCommandHandler{uowFactory: uowFactory}
}

func (h AdvanceTicketCommandHandler) Handle(ctx context.Context, cmd AdvanceTicketCommand) (AdvanceTicketResult, error) {
	if err := cmd.Validate(); err != nil {
		return AdvanceTicketResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AdvanceTicketResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TicketRepository()
	ticket, err := repo.Get(ctx, cmd.TicketID())
	if err != nil {
		return AdvanceTicketResult{}, err
	}

	moved, err := apply(ticket, cmd.Action())
	if err != nil {
		return AdvanceTicketResult{}, err
	}
	if !moved {
		return AdvanceTicketResult{Ticket: ticket}, nil
	}

	if err = repo.Update(ctx, ticket); err != nil {
		return AdvanceTicketResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AdvanceTicketResult{}, err
	}

	return AdvanceTicketResult{Ticket: ticket, Moved: true}, nil
}

func apply(ticket *kitchen.Ticket, action TicketAction) (bool, error) {
	switch action {
	case StartTicket:
		return true, ticket.Start()
	case HoldTicket:
		return true, ticket.Hold()
	case ResumeTicket:
		return true, ticket.Resume()
	case MarkTicketReady:
		return ticket.MarkReady()
	case RecallTicket:
		return true, ticket.Recall()
	default:
		return true, ticket.Serve()
	}
}
