package ports

import (
	"context"
	"time"

	"pos/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// SaleRecord is a finalized order as appended to sales history.
type SaleRecord struct {
	OrderID    string
	OrderType  string
	Status     string
	TableID    string
	CustomerID string
	WaiterID   string
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	TaxTotal   decimal.Decimal
	Tip        decimal.Decimal
	GrandTotal decimal.Decimal
	Paid       decimal.Decimal
	Due        decimal.Decimal
	Payments   []order.Payment
	ClosedAt   time.Time
}

// SaleRecordFromOrder captures a closed order for sales history.
func SaleRecordFromOrder(o *order.Order, closedAt time.Time) SaleRecord {
	totals := o.Totals()
	payments := o.Payments()
	for _, s := range o.Splits() {
		payments = append(payments, s.Payments()...)
	}
	return SaleRecord{
		OrderID:    o.ID().String(),
		OrderType:  o.Type().String(),
		Status:     o.Status().String(),
		TableID:    o.TableID(),
		CustomerID: o.CustomerID(),
		WaiterID:   o.WaiterID(),
		Subtotal:   totals.Subtotal,
		Discount:   totals.Discount,
		TaxTotal:   totals.TaxTotal(),
		Tip:        totals.Tip,
		GrandTotal: totals.GrandTotal,
		Paid:       o.PaidTotal(),
		Due:        o.Due(),
		Payments:   payments,
		ClosedAt:   closedAt,
	}
}

// SalesHistory is the append-only record of finalized sales.
type SalesHistory interface {
	Append(ctx context.Context, record SaleRecord) error
}

// SpooledSale is a sale waiting to be appended to sales history.
type SpooledSale struct {
	ID       int64
	Record   SaleRecord
	Attempts int
}

// SalesSpool keeps sales that could not be recorded so they can be retried.
type SalesSpool interface {
	Put(ctx context.Context, record SaleRecord) error
	Pending(ctx context.Context, limit int) ([]SpooledSale, error)
	Remove(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
}

// CustomerLedger holds the running due balance of customers.
type CustomerLedger interface {
	AddDue(ctx context.Context, customerID string, amount decimal.Decimal) error
}
