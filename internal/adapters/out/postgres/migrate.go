package postgres

import (
	"context"

	"pos/internal/adapters/out/postgres/ledgerrepo"
	"pos/internal/adapters/out/postgres/orderrepo"
	"pos/internal/adapters/out/postgres/salesrepo"
	"pos/internal/adapters/out/postgres/ticketrepo"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date: tables and indexes from the DTOs and
// the ticket number sequence.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&orderrepo.SplitDTO{},
		&ticketrepo.TicketDTO{},
		&ledgerrepo.CustomerDueDTO{},
		&salesrepo.SaleDTO{},
	); err != nil {
		return err
	}
	return db.Exec("CREATE SEQUENCE IF NOT EXISTS " + ticketrepo.NumberSequence).Error
}
