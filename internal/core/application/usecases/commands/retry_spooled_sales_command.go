package commands

import (
	"errors"
	"fmt"

	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

var ErrRetrySpooledSalesCommandIsNotConstructed = errors.New(
	"RetrySpooledSalesCommand must be created via NewRetrySpooledSalesCommand constructor",
)

// RetrySpooledSalesCommand drains up to batchSize spooled sales into sales
// history.
type RetrySpooledSalesCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRetrySpooledSalesCommand(batchSize int) (RetrySpooledSalesCommand, error) {
	if batchSize < 1 {
		return RetrySpooledSalesCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"batch size", fmt.Errorf("%d is not greater than 0", batchSize))
	}
	return RetrySpooledSalesCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RetrySpooledSalesCommand) Validate() error {
	return c.guard.Validate(ErrRetrySpooledSalesCommandIsNotConstructed)
}

func (c RetrySpooledSalesCommand) BatchSize() int {
	return c.batchSize
}
