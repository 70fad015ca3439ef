package services_test

import (
	"testing"
	"time"

	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	pasta = menu.Entry{ID: "pasta", Name: "Pasta", Variations: []menu.Variation{{Name: "regular", Price: dec("10")}}}
	salad = menu.Entry{ID: "salad", Name: "Salad", Variations: []menu.Variation{{Name: "side", Price: dec("5")}}}
	pizza = menu.Entry{
		ID:         "pizza",
		Name:       "Pizza",
		Variations: []menu.Variation{{Name: "12in", Price: dec("12")}},
		AddonGroups: []menu.AddonGroup{{Name: "Toppings", Addons: []menu.Addon{
			{ID: "olives", Name: "Olives", Price: dec("1")},
		}}},
	}
)

// referenceOrder is two pasta and a salad, 10% off, taxed 5% and 2%:
// grand total 24.075.
func referenceOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.DineIn, billing.TaxSchedule{
		{ID: "vat", Name: "VAT", Rate: dec("5")},
		{ID: "svc", Name: "Service", Rate: dec("2")},
	}, now)
	require.NoError(t, err)
	require.NoError(t, o.BindTable("t1"))
	line, err := o.AddItem(pasta, "", nil)
	require.NoError(t, err)
	require.NoError(t, o.UpdateQuantity(line, 2))
	_, err = o.AddItem(salad, "", nil)
	require.NoError(t, err)
	discount, err := billing.NewDiscount(billing.PercentageDiscount, dec("10"))
	require.NoError(t, err)
	require.NoError(t, o.ApplyDiscount(discount))
	require.True(t, o.Totals().GrandTotal.Equal(dec("24.075")))
	return o
}
