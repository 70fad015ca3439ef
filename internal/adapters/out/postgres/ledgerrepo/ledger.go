// Package ledgerrepo keeps the running due balance per customer.
package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerDueDTO struct {
	CustomerID string          `gorm:"primaryKey"`
	Due        decimal.Decimal `gorm:"type:numeric;not null"`
	UpdatedAt  time.Time
}

func (CustomerDueDTO) TableName() string {
	return "customer_dues"
}

// GormCustomerLedger implements ports.CustomerLedger using GORM.
type GormCustomerLedger struct {
	db *gorm.DB
}

func NewGormCustomerLedger(db *gorm.DB) *GormCustomerLedger {
	return &GormCustomerLedger{db: db}
}

// AddDue adds amount to the customer's balance, opening it on first use.
func (l *GormCustomerLedger) AddDue(ctx context.Context, customerID string, amount decimal.Decimal) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customer")
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidError("due amount")
	}

	dto := CustomerDueDTO{CustomerID: customerID, Due: amount}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"due":        gorm.Expr("customer_dues.due + EXCLUDED.due"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(&dto).Error
}

// Due returns the customer's balance, zero for an unknown customer.
func (l *GormCustomerLedger) Due(ctx context.Context, customerID string) (decimal.Decimal, error) {
	var dto CustomerDueDTO
	err := l.db.WithContext(ctx).First(&dto, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return dto.Due, nil
}
