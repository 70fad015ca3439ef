package queries

import (
	"errors"
	"time"

	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetSalesHistoryQueryIsNotConstructed = errors.New(
	"GetSalesHistoryQuery must be created via NewGetSalesHistoryQuery constructor",
)

// GetSalesHistoryQuery reads the sales closed on one calendar day, in the
// day's own location.
type GetSalesHistoryQuery struct {
	from time.Time
	to   time.Time

	guard guard.ConstructorGuard
}

func NewGetSalesHistoryQuery(day time.Time) (GetSalesHistoryQuery, error) {
	if day.IsZero() {
		return GetSalesHistoryQuery{}, errs.NewValueIsRequiredError("day")
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return GetSalesHistoryQuery{
		from:  from,
		to:    from.AddDate(0, 0, 1),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q GetSalesHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetSalesHistoryQueryIsNotConstructed)
}

func (q GetSalesHistoryQuery) From() time.Time {
	return q.from
}

func (q GetSalesHistoryQuery) To() time.Time {
	return q.to
}

type SaleLine struct {
	OrderID    string
	OrderType  string
	Status     string
	TableID    string
	CustomerID string
	GrandTotal decimal.Decimal
	Paid       decimal.Decimal
	Due        decimal.Decimal
	ClosedAt   time.Time
}

// SalesDay is a day's sales and their sums.
type SalesDay struct {
	Sales      []SaleLine
	GrandTotal decimal.Decimal
	TaxTotal   decimal.Decimal
	Tips       decimal.Decimal
	Due        decimal.Decimal
}
