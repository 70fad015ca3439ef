package ports

import (
	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/menu"

	"github.com/shopspring/decimal"
)

type Table struct {
	ID       string
	Name     string
	Capacity int
}

type Person struct {
	ID   string
	Name string
}

type Customer struct {
	ID   string
	Name string
	Due  decimal.Decimal
}

// Directory is the read-only reference data the core consumes: catalog,
// tax schedule, rosters and outlet settings.
type Directory interface {
	MenuEntry(id string) (menu.Entry, bool)
	Menu() []menu.Entry
	TaxSchedule() billing.TaxSchedule
	Table(id string) (Table, bool)
	Waiter(id string) (Person, bool)
	Customer(id string) (Customer, bool)
	DeliveryPartner(id string) (Person, bool)
	PaymentMethodEnabled(method string) bool
	SoundEnabled() bool
}
