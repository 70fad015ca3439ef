// Package salesrepo is the append-only sales history.
package salesrepo

import (
	"context"
	"time"

	"pos/internal/core/ports"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleDTO struct {
	OrderID    string `gorm:"primaryKey"`
	OrderType  string
	Status     string
	TableID    string
	CustomerID string `gorm:"index"`
	WaiterID   string
	Subtotal   decimal.Decimal `gorm:"type:numeric"`
	Discount   decimal.Decimal `gorm:"type:numeric"`
	TaxTotal   decimal.Decimal `gorm:"type:numeric"`
	Tip        decimal.Decimal `gorm:"type:numeric"`
	GrandTotal decimal.Decimal `gorm:"type:numeric"`
	Paid       decimal.Decimal `gorm:"type:numeric"`
	Due        decimal.Decimal `gorm:"type:numeric"`
	Payments   []PaymentDTO    `gorm:"type:jsonb;serializer:json"`
	ClosedAt   time.Time       `gorm:"index"`
}

func (SaleDTO) TableName() string {
	return "sales_history"
}

type PaymentDTO struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

func fromRecord(r ports.SaleRecord) SaleDTO {
	payments := make([]PaymentDTO, 0, len(r.Payments))
	for _, p := range r.Payments {
		payments = append(payments, PaymentDTO{Method: p.Method, Amount: p.Amount})
	}
	return SaleDTO{
		OrderID:    r.OrderID,
		OrderType:  r.OrderType,
		Status:     r.Status,
		TableID:    r.TableID,
		CustomerID: r.CustomerID,
		WaiterID:   r.WaiterID,
		Subtotal:   r.Subtotal,
		Discount:   r.Discount,
		TaxTotal:   r.TaxTotal,
		Tip:        r.Tip,
		GrandTotal: r.GrandTotal,
		Paid:       r.Paid,
		Due:        r.Due,
		Payments:   payments,
		ClosedAt:   r.ClosedAt,
	}
}

// GormSalesHistory implements ports.SalesHistory using GORM.
type GormSalesHistory struct {
	db *gorm.DB
}

func NewGormSalesHistory(db *gorm.DB) *GormSalesHistory {
	return &GormSalesHistory{db: db}
}

// Append records a sale once. Appending the same order again is a no-op, so
// a spooled sale can be retried after a partial failure.
func (h *GormSalesHistory) Append(ctx context.Context, record ports.SaleRecord) error {
	dto := fromRecord(record)
	return h.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto).Error
}
