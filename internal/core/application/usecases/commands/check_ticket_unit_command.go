package commands

import (
	"errors"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

var ErrCheckTicketUnitCommandIsNotConstructed = errors.New(
	"CheckTicketUnitCommand must be created via NewCheckTicketUnitCommand constructor",
)

// CheckTicketUnitCommand ticks or clears one checklist unit of a ticket.
type CheckTicketUnitCommand struct {
	ticketID kernel.UUID
	unitKey  string
	checked  bool

	guard guard.ConstructorGuard
}

func NewCheckTicketUnitCommand(ticketID kernel.UUID, unitKey string, checked bool) (CheckTicketUnitCommand, error) {
	var keyErr error
	if unitKey == "" {
		keyErr = errs.NewValueIsRequiredError("unit key")
	}
	if err := errors.Join(ticketID.Validate(), keyErr); err != nil {
		return CheckTicketUnitCommand{}, err
	}
	return CheckTicketUnitCommand{
		ticketID: ticketID,
		unitKey:  unitKey,
		checked:  checked,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CheckTicketUnitCommand) Validate() error {
	return c.guard.Validate(ErrCheckTicketUnitCommandIsNotConstructed)
}

func (c CheckTicketUnitCommand) TicketID() kernel.UUID {
	return c.ticketID
}

func (c CheckTicketUnitCommand) UnitKey() string {
	return c.unitKey
}

func (c CheckTicketUnitCommand) Checked() bool {
	return c.checked
}
