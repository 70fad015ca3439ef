package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOpenOrderByTableQueryHandler struct {
	db *gorm.DB
}

func NewGetOpenOrderByTableQueryHandler(db *gorm.DB) GetOpenOrderByTableQueryHandler {
	return GetOpenOrderByTableQueryHandler{db: db}
}

// Handle returns an errs.ObjectNotFoundError when the table is free.
func (h GetOpenOrderByTableQueryHandler) Handle(ctx context.Context, query GetOpenOrderByTableQuery) (OpenOrderSummary, error) {
	if err := query.Validate(); err != nil {
		return OpenOrderSummary{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.waiter_id,
			o.grand_total,
			o.due,
			o.created_at,
			COUNT(l.id),
			COUNT(l.id) FILTER (WHERE l.dispatch_state = ?)
		FROM orders o
		LEFT JOIN order_lines l ON l.order_id = o.id
		WHERE o.table_id = ? AND o.status = ?
		GROUP BY o.id
	`, int(order.Pending), query.TableID(), int(order.Open)).Row()

	var (
		id             uuid.UUID
		waiterID       string
		grandTotal     decimal.Decimal
		due            decimal.Decimal
		createdAt      time.Time
		lines, pending int
	)
	if err := row.Scan(&id, &waiterID, &grandTotal, &due, &createdAt, &lines, &pending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OpenOrderSummary{}, errs.NewObjectNotFoundError("open order for table", query.TableID())
		}
		return OpenOrderSummary{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OpenOrderSummary{}, err
	}

	return OpenOrderSummary{
		ID:         orderID,
		TableID:    query.TableID(),
		WaiterID:   waiterID,
		Lines:      lines,
		Pending:    pending,
		GrandTotal: grandTotal,
		Due:        due,
		CreatedAt:  createdAt,
	}, nil
}
