package queries

import (
	"errors"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

var ErrGetKitchenBoardQueryIsNotConstructed = errors.New(
	"GetKitchenBoardQuery must be created via NewGetKitchenBoardQuery constructor",
)

// GetKitchenBoardQuery lists every ticket still on the board, graded against
// the given clock reading.
//
// Example:
//
//	query, _ := NewGetKitchenBoardQuery(time.Now())
//	board, err := NewGetKitchenBoardQueryHandler(db).Handle(ctx, query)
//	for _, t := range board {
//	    fmt.Printf("#%d %s %s\n", t.Number, t.Status, t.Freshness)
//	}
type GetKitchenBoardQuery struct {
	now time.Time

	guard guard.ConstructorGuard
}

func NewGetKitchenBoardQuery(now time.Time) (GetKitchenBoardQuery, error) {
	if now.IsZero() {
		return GetKitchenBoardQuery{}, errs.NewValueIsRequiredError("now")
	}
	return GetKitchenBoardQuery{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (q GetKitchenBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchenBoardQueryIsNotConstructed)
}

func (q GetKitchenBoardQuery) Now() time.Time {
	return q.now
}

// KitchenBoardTicket is one card on the kitchen board. ReadyEnabled tells
// the board whether to offer the ready action.
type KitchenBoardTicket struct {
	ID           kernel.UUID
	Number       int
	OrderID      kernel.UUID
	OrderType    string
	Table        string
	Waiter       string
	Status       kitchen.Status
	CreatedAt    time.Time
	Elapsed      time.Duration
	Freshness    kitchen.Freshness
	Items        []kitchen.Item
	Units        []kitchen.Unit
	ReadyEnabled bool
}
