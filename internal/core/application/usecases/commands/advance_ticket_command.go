package commands

import (
	"errors"
	"fmt"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

var ErrAdvanceTicketCommandIsNotConstructed = errors.New(
	"AdvanceTicketCommand must be created via NewAdvanceTicketCommand constructor",
)

// TicketAction is a move on the kitchen board.
type TicketAction string

const (
	StartTicket     TicketAction = "start"
	HoldTicket      TicketAction = "hold"
	ResumeTicket    TicketAction = "resume"
	MarkTicketReady TicketAction = "ready"
	RecallTicket    TicketAction = "recall"
	ServeTicket     TicketAction = "serve"
)

var ticketActions = map[TicketAction]struct{}{
	StartTicket:     {},
	HoldTicket:      {},
	ResumeTicket:    {},
	MarkTicketReady: {},
	RecallTicket:    {},
	ServeTicket:     {},
}

// AdvanceTicketCommand applies one board action to a ticket.
type AdvanceTicketCommand struct {
	ticketID kernel.UUID
	action   TicketAction

	guard guard.ConstructorGuard
}

func NewAdvanceTicketCommand(ticketID kernel.UUID, action TicketAction) (AdvanceTicketCommand, error) {
	var actionErr error
	if _, ok := ticketActions[action]; !ok {
		actionErr = errs.NewValueIsInvalidErrorWithCause("ticket action", fmt.Errorf("%q is not a board action", action))
	}
	if err := errors.Join(ticketID.Validate(), actionErr); err != nil {
		return AdvanceTicketCommand{}, err
	}
	return AdvanceTicketCommand{
		ticketID: ticketID,
		action:   action,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceTicketCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceTicketCommandIsNotConstructed)
}

func (c AdvanceTicketCommand) TicketID() kernel.UUID {
	return c.ticketID
}

func (c AdvanceTicketCommand) Action() TicketAction {
	return c.action
}
