package queries

import (
	"errors"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOpenOrderByTableQueryIsNotConstructed = errors.New(
	"GetOpenOrderByTableQuery must be created via NewGetOpenOrderByTableQuery constructor",
)

// GetOpenOrderByTableQuery looks up the order currently holding a table.
type GetOpenOrderByTableQuery struct {
	tableID string

	guard guard.ConstructorGuard
}

func NewGetOpenOrderByTableQuery(tableID string) (GetOpenOrderByTableQuery, error) {
	if tableID == "" {
		return GetOpenOrderByTableQuery{}, errs.NewValueIsRequiredError("table")
	}
	return GetOpenOrderByTableQuery{tableID: tableID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOpenOrderByTableQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrderByTableQueryIsNotConstructed)
}

func (q GetOpenOrderByTableQuery) TableID() string {
	return q.tableID
}

// OpenOrderSummary is what a floor plan shows for an occupied table.
type OpenOrderSummary struct {
	ID         kernel.UUID
	TableID    string
	WaiterID   string
	Lines      int
	Pending    int
	GrandTotal decimal.Decimal
	Due        decimal.Decimal
	CreatedAt  time.Time
}
