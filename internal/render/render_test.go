package render_test

import (
	"strings"
	"testing"
	"time"

	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/core/ports"
	"pos/internal/render"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var printedAt = time.Date(2026, 3, 14, 21, 5, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

var (
	pasta  = menu.Entry{ID: "pasta", Name: "Pasta", Variations: []menu.Variation{{Name: "regular", Price: dec("10")}}}
	salad  = menu.Entry{ID: "salad", Name: "Salad", Variations: []menu.Variation{{Name: "side", Price: dec("5")}}}
	burger = menu.Entry{
		ID:         "burger",
		Name:       "Burger",
		Variations: []menu.Variation{{Name: "single", Price: dec("10")}},
		AddonGroups: []menu.AddonGroup{{
			Name:   "Extras",
			Addons: []menu.Addon{{ID: "cheese", Name: "Cheese", Price: dec("1.5")}},
		}},
	}
	soda = menu.Entry{ID: "soda", Name: "Soda", Variations: []menu.Variation{{Name: "can", Price: dec("3")}}}
)

func newOrder(t *testing.T, id string) *order.Order {
	t.Helper()
	orderID, err := kernel.UUIDFromString(id)
	require.NoError(t, err)
	o, err := order.NewOrder(orderID, order.DineIn, billing.TaxSchedule{
		{ID: "vat", Name: "VAT", Rate: dec("5")},
		{ID: "svc", Name: "Service", Rate: dec("2")},
	}, printedAt)
	require.NoError(t, err)
	require.NoError(t, o.BindTable("t1"))
	return o
}

func TestReceipt(t *testing.T) {
	header := render.ReceiptHeader{Outlet: "Harbour Kitchen", Table: "Terrace 1", Waiter: "Ana", PrintedAt: printedAt}

	t.Run("should print a short payment with its balance", func(t *testing.T) {
		o := newOrder(t, "5f0c2a1e-8d4b-4c3a-9e2f-1a2b3c4d5e6f")
		line, err := o.AddItem(pasta, "", nil)
		require.NoError(t, err)
		require.NoError(t, o.UpdateQuantity(line, 2))
		require.NoError(t, o.SetNote(line, "no garlic"))
		_, err = o.AddItem(salad, "", nil)
		require.NoError(t, err)
		discount, err := billing.NewDiscount(billing.PercentageDiscount, dec("10"))
		require.NoError(t, err)
		require.NoError(t, o.ApplyDiscount(discount))
		_, err = services.NewSettlementEngine().Finalize(o, []order.Payment{{Method: "cash", Amount: dec("20")}}, decimal.Zero, nil)
		require.NoError(t, err)

		golden(t).Assert(t, "receipt_short_payment", []byte(render.Receipt(header, o)))
	})

	t.Run("should print addons, tip and change", func(t *testing.T) {
		o := newOrder(t, "0a6e7c52-3b1d-4f7e-8c9a-b2d4e6f8a0c1")
		_, err := o.AddItem(burger, "", []string{"cheese"})
		require.NoError(t, err)
		_, err = o.AddItem(soda, "", nil)
		require.NoError(t, err)
		_, err = o.AddItem(soda, "", nil)
		require.NoError(t, err)
		_, err = services.NewSettlementEngine().Finalize(o, []order.Payment{{Method: "card", Amount: dec("25")}}, dec("2"), nil)
		require.NoError(t, err)
		require.Equal(t, order.Settled, o.Status())

		golden(t).Assert(t, "receipt_settled", []byte(render.Receipt(header, o)))
	})

	t.Run("should keep every line within the paper width", func(t *testing.T) {
		o := newOrder(t, "0a6e7c52-3b1d-4f7e-8c9a-b2d4e6f8a0c1")
		long := menu.Entry{
			ID:         "platter",
			Name:       "Chef's seasonal tasting platter with seven small plates",
			Variations: []menu.Variation{{Name: "sharing", Price: dec("1234.5")}},
		}
		_, err := o.AddItem(long, "", nil)
		require.NoError(t, err)

		receipt := render.Receipt(render.ReceiptHeader{Outlet: "Harbour Kitchen"}, o)
		for _, line := range strings.Split(strings.TrimSuffix(receipt, "\n"), "\n") {
			assert.LessOrEqual(t, len([]rune(line)), render.Width, line)
		}
	})
}

func TestKitchenTicket(t *testing.T) {
	t.Run("should print lines with indented addons and notes", func(t *testing.T) {
		ticketID, err := kernel.UUIDFromString("9b2d7e4a-1c3f-4a5b-8d6e-7f8091a2b3c4")
		require.NoError(t, err)
		tk, err := kitchen.NewTicket(ticketID, 12, kernel.NewUUID(), []kitchen.Item{
			{LineID: kernel.NewUUID(), Name: "Burger", Variation: "single", Quantity: 1, Addons: []string{"Cheese"}},
			{LineID: kernel.NewUUID(), Name: "Pasta", Variation: "regular", Quantity: 2, Note: "no garlic"},
			{LineID: kernel.NewUUID(), Name: "Soda", Quantity: 2},
		}, kitchen.Labels{Table: "Terrace 1", Waiter: "Ana"}, order.DineIn, printedAt)
		require.NoError(t, err)

		golden(t).Assert(t, "kitchen_ticket", []byte(render.KitchenTicket(tk)))
	})
}

type labels struct{}

func (labels) Outlet() string {
	return "Harbour Kitchen"
}

func (labels) Table(id string) (ports.Table, bool) {
	if id == "t1" {
		return ports.Table{ID: "t1", Name: "Terrace 1"}, true
	}
	return ports.Table{}, false
}

func (labels) Waiter(id string) (ports.Person, bool) {
	return ports.Person{}, false
}

func (labels) Customer(id string) (ports.Customer, bool) {
	if id == "c1" {
		return ports.Customer{ID: "c1", Name: "Marta Ruiz"}, true
	}
	return ports.Customer{}, false
}

func TestHeaderFor(t *testing.T) {
	t.Run("should resolve names and fall back to raw identifiers", func(t *testing.T) {
		o := newOrder(t, "6f1c2d3e-0000-4000-8000-000000000001")
		require.NoError(t, o.AssignWaiter("w9"))
		require.NoError(t, o.AssignCustomer("c1"))

		h := render.HeaderFor(labels{}, o, printedAt)

		assert.Equal(t, render.ReceiptHeader{
			Outlet:    "Harbour Kitchen",
			Table:     "Terrace 1",
			Waiter:    "w9",
			Customer:  "Marta Ruiz",
			PrintedAt: printedAt,
		}, h)
	})
}
