package queries

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetSalesHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetSalesHistoryQueryHandler(db *gorm.DB) GetSalesHistoryQueryHandler {
	return GetSalesHistoryQueryHandler{db: db}
}

func (h GetSalesHistoryQueryHandler) Handle(ctx context.Context, query GetSalesHistoryQuery) (SalesDay, error) {
	if err := query.Validate(); err != nil {
		return SalesDay{}, err
	}

	day := SalesDay{
		Sales:      make([]SaleLine, 0),
		GrandTotal: decimal.Zero,
		TaxTotal:   decimal.Zero,
		Tips:       decimal.Zero,
		Due:        decimal.Zero,
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			order_type,
			status,
			table_id,
			customer_id,
			tax_total,
			tip,
			grand_total,
			paid,
			due,
			closed_at
		FROM sales_history
		WHERE closed_at >= ? AND closed_at < ?
		ORDER BY closed_at
	`, query.From(), query.To()).Rows()
	if err != nil {
		return SalesDay{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sale     SaleLine
			taxTotal decimal.Decimal
			tip      decimal.Decimal
			closedAt time.Time
		)
		if err = rows.Scan(
			&sale.OrderID,
			&sale.OrderType,
			&sale.Status,
			&sale.TableID,
			&sale.CustomerID,
			&taxTotal,
			&tip,
			&sale.GrandTotal,
			&sale.Paid,
			&sale.Due,
			&closedAt,
		); err != nil {
			return SalesDay{}, err
		}
		sale.ClosedAt = closedAt.In(query.From().Location())

		day.Sales = append(day.Sales, sale)
		day.GrandTotal = day.GrandTotal.Add(sale.GrandTotal)
		day.TaxTotal = day.TaxTotal.Add(taxTotal)
		day.Tips = day.Tips.Add(tip)
		day.Due = day.Due.Add(sale.Due)
	}

	if err = rows.Err(); err != nil {
		return SalesDay{}, err
	}

	return day, nil
}
